// Package elf parses plain executable images: the fixed header and the
// program header table, yielding the segment list the container codec and the
// metadata patcher operate on.
//
// Parsing never copies segment payloads; a File references the caller's
// buffer and owns it for its lifetime. All operations are in-memory and
// perform no I/O.
package elf
