// 20 Feb 2024
/*

dbkit builds and reads the flat structure database that spring takes
its templates from. The database is a single file of concatenated PDB
entries and the index says where each entry starts and how long it is.

Usage:
 dbkit build [-a] index database file1.pdb file2.pdb.gz ...
 dbkit fetch [-a] index database 1abc 2xyz ...
 dbkit get index database 1abc.pdb outfile.pdb

build stores each file under its base name with any .gz removed.
Compressed files are stored uncompressed. With -a, the files are added
to an existing database.

fetch downloads entries in PDB format from the wwPDB sites and stores
them as 1abc.pdb. If one site does not have an entry, the next is tried.

get copies one entry out to a file. It exits with status 1 if the entry
is not in the index.

*/
package main
