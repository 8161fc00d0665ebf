package main

// defaultMaze is the compiled-in maze used when no -t template file is
// given, a straightforward translation of the original server's built-in
// layout into the same line-array shape loadTemplate returns for a file.
var defaultMaze = []string{
	"******************************",
	"***** %%%%%%%%% &&&&&&&&&&& **",
	"***** %%%%%%%%%        $$$$  *",
	"*           $$$$$$ $$$$$$$$$ *",
	"*##########                  *",
	"*########## @@@@@@@@@@@@@@@@@*",
	"*           @@@@@@@@@@@@@@@@@*",
	"******************************",
}
