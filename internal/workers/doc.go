/*
Package workers sizes the transcode worker pool.

Transcoding is CPU-bound and ffmpeg already spreads one job over several
threads, so SusScope runs at most one ffmpeg process per available CPU and
caps that at a small limit. The count is derived from runtime.GOMAXPROCS,
which respects container CPU limits, rather than runtime.NumCPU:

	n := workers.ForCPU(cfg.TranscodeWorkers, 4)

A positive override (TRANSCODE_WORKERS or --transcode-workers) replaces the
computed value but is still capped by the limit.
*/
package workers
