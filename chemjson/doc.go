//Package chemjson defines the JSON messages exchanged with remote views of
//a molecule: frames, highlights and detaches going out, pointer and
//editing input coming in. One message per websocket message, or per line
//on a stream.
package chemjson
