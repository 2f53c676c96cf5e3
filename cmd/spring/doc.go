// 28 Feb 2024
/*

spring builds a model of a two chain complex from the hhsearch results of
the two sequences.

Usage:
 spring [options] -a_hhr a.hhr -b_hhr b.hhr -index pdb.idx -database pdb.dat -cross cross.txt -output model.pdb

The top hit of each hhr file is used to build a monomer model, which is
then rebuilt by pulchra. Template chains are paired through the cross
reference file and tried best first. For each pair, the first biological
assembly of the template entry that holds both chains is used as the
framework. Both monomers are superposed on their template chains with
TM-align and the result is scored as

	min(TM-score A, TM-score B) + wenergy * interface energy

The best scoring model whose clash ratio is below maxclashes is written
to the output file, monomer A as chain 0 and monomer B as chain 1. A line
is appended to the summary log.

Flags:
  -config file.toml
	Read settings from a toml file. Keys have the same names as the
	flags. Flags given on the command line win.
  -minscore x
	Stop trying frameworks when their hit score drops below x.
  -maxtries n
	Try at most n frameworks.
  -wenergy x
	Weight of the interface energy.
  -maxclashes x
	Reject models with a clash ratio of x or more.
  -showtemplate
	Append the template assembly to the output.
  -direct
	Do not use a cross reference. Walk the hits of A and take the
	partner chain from the same entry.

Exit status is 0 if a model was written, 3 if the run finished but no
model could be made, 2 for a usage error and 1 for anything else.

*/
package main
