// Package stos implements a small, self-contained FORTH-like system: a
// tokenizer, a bytecode compiler with immediate control-flow words, a
// stack-based bytecode virtual machine, and the dictionary that binds
// names to either native primitives or compiled bytecode bodies.
//
// The four pieces are tightly coupled by design: the compiler invokes
// IMMEDIATE primitives that manipulate the compile stack and patch
// already-emitted bytecode, while the VM executes that bytecode and may
// itself push data the compiler or a later primitive consumes. The REPL
// framing (prompt, line reading, error reporting, REBOOT) is also in this
// package and reaches the outside only through the IOPort interface; the
// concrete terminal and script ports live in internal/termio and the
// command-line front end in cmd/stos.
package stos
