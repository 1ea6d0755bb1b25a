// Package token defines lexical token kinds for the Wy language.
// Invariants:
//   - Token.Text is the exact source slice for identifiers, keywords and
//     operators; identifiers are additionally NFC-normalized in Token.Value.
//   - Token.Span matches the scanned bytes (Start..End).
//   - Type names (int, bool) are identifiers; sema recognizes them.
package token
