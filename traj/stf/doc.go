//Package stf records editing sessions in the simple trajectory format.
//
//stf aims to produce reasonably small files that are very easy to read
//and write, so readers can be written for other languages and programs.
//
//The format
//
//An stf file is ASCII text compressed with z-standard (zstd).
//
//The file starts with a header of key=value lines. The header must at
//least contain the precision, as prec=N with N a positive integer. The
//header ends with a line starting with "**", one or more spaces and the
//number of atoms in the first frame.
//
//After the header comes one line per atom, per frame, with the x, y and z
//coordinates of the atom multiplied by 10 to the power of the precision
//and rounded to an integer. Each frame ends with a line starting with "*".
//
//Atoms can be added while a session is recorded. A frame whose atom count
//differs from the previous one is preceded by a new "**" line with the new
//count. Readers that only handle a fixed number of atoms will stop at
//that line. No topology is stored: the file records what was drawn.
package stf
