// Package cpu implements the decode-and-execute core of the z80step interpreter.
//
// The machine model holds eight 8-bit registers (a, f, b, c, d, e, h, l), each
// remembering a short history of its prior values, a flat 64K memory and a
// symbol table of named constants. Register pairs (bc, de, hl) are views over
// two 8-bit registers and have no storage of their own.
//
// Source lines are decoded by DecodeLine into label, constant or instruction
// lines. Instruction operands are classified into typed Operand values, checked
// against the static instruction forms and executed against the Machine.
// Control transfers (jumps, calls, returns, halt) are only recorded; acting on
// them is the caller's business.
package cpu
