// Package app wires configuration, instrumentation and the security packages
// into the sectools command line.
//
// Every command reads secrets from stdin, never from arguments, and reports
// through its exit code: 0 on success, 1 for a negative answer (mismatch,
// unacceptable password, invalid token), 2 for invalid input and 3 for a
// configuration problem.
package app
