/*
Package filesystem wraps the os calls SusScope makes against the cache root
and the selected archive with retry logic for NFS stale file handle errors.

The cache directory commonly lives under the user's home, which on lab
machines is often NFS-mounted. ESTALE (errno 116) shows up there when the
server swaps a file underneath an open handle, so Stat and Open retry with
exponential backoff on that error only. All other errors return immediately.

	info, err := filesystem.StatWithRetry(finalPath, filesystem.DefaultRetryConfig())

Every operation is labeled with a volume ("cache", "archive", or "unknown")
for the retry metrics, taken from RetryConfig.Volume. CacheRetryConfig and
ArchiveRetryConfig set it for the two places SusScope reads from.

IsSubPath reports whether a path stays inside a root after cleaning; the
protocol handler uses it to refuse paths outside the cache root.
*/
package filesystem
