/*
Package protocol serves materialized media files for the susscope:// scheme.

A resource URI has the form

	susscope://localhost/<percent-encoded absolute path>

and names a file under the media cache. Handler.Respond turns a URI and an
optional Range header into a status, headers and a body:

	400  the URI cannot be decoded
	404  the path is outside the cache or cannot be opened
	500  the file cannot be inspected or is a directory
	200  the whole file, with Content-Range covering every byte
	206  a single satisfiable byte range
	416  a byte range that starts past the end of the file

Every successful response is video/mp4 and advertises byte ranges. The same
Handler also serves these responses over HTTP through ServeHTTP.
*/
package protocol
