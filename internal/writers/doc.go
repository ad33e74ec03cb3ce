// Package writers turns rule documents into serialized outputs.
//
// Design:
//   • Writers own format selection; internal/output owns the encodings.
//   • Engine stays domain-only; app stays orchestration-only.
//   • Files are published atomically: nothing appears at the target path
//     unless the whole document was written.
package writers
