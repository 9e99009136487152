package lower

// progHdr is the fixed preamble emitted once per output module: LLVM's
// datalayout/triple, the string constants backing print's built-ins, the
// library declarations print/alloc/free rely on, and print_bool's,
// print_int's etc. full definitions (spec.md §4.6, carried verbatim from
// the reference lowering's PROG_HDR). %s/%s are the source module name
// and source file name, both set to the input path (or "stdin").
const progHdr = `
; ModuleID = '%[1]s'
source_filename = "%[1]s"
target datalayout = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128"
target triple = "x86_64-pc-linux-gnu"

@.str = private unnamed_addr constant [5 x i8] c"true\00", align 1
@.str.1 = private unnamed_addr constant [6 x i8] c"false\00", align 1
@.str.2 = private unnamed_addr constant [4 x i8] c"%%ld\00", align 1
@.str.3 = private unnamed_addr constant [9 x i8] c"[object]\00", align 1
@.str.4 = private unnamed_addr constant [33 x i8] c"error: expected %%d args, got %%d\0A\00", align 1

; DECLARE LIBRARY CALLS
declare dso_local i32 @putchar(i32)
declare dso_local i32 @printf(i8*, ...)
declare dso_local void @exit(i32)
declare dso_local i64 @atol(i8*)
declare dso_local noalias i8* @malloc(i64)
declare dso_local void @free(i8*)

define dso_local i32 @btoi(i8* %%0) #0 {
  %%2 = alloca i8*, align 8
  store i8* %%0, i8** %%2, align 8
  %%3 = load i8*, i8** %%2, align 8
  %%4 = load i8, i8* %%3, align 1
  %%5 = sext i8 %%4 to i32
  %%6 = icmp eq i32 %%5, 116
  %%7 = zext i1 %%6 to i32
  ret i32 %%7
}

define dso_local void @print_bool(i1 %%0) {
  %%2 = icmp ne i1 %%0, 0
  br i1 %%2, label %%3, label %%5

3:
  %%4 = call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([5 x i8], [5 x i8]* @.str, i64 0, i64 0))
  br label %%7

5:
  %%6 = call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([6 x i8], [6 x i8]* @.str.1, i64 0, i64 0))
  br label %%7

7:
  ret void
}

define dso_local void @print_space() {
  %%1 = call i32 @putchar(i32 32)
  ret void
}

define dso_local void @print_newline() {
  %%1 = call i32 @putchar(i32 10)
  ret void
}

define dso_local void @print_int(i64 %%0) {
  %%2 = alloca i64, align 8
  store i64 %%0, i64* %%2, align 8
  %%3 = load i64, i64* %%2, align 8
  %%4 = call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([4 x i8], [4 x i8]* @.str.2, i64 0, i64 0), i64 %%3)
  ret void
}

define dso_local void @print_ptr(i8* %%0) {
  %%2 = alloca i8*, align 8
  store i8* %%0, i8** %%2, align 8
  %%3 = call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([9 x i8], [9 x i8]* @.str.3, i64 0, i64 0))
  ret void
}
`

// funHdr and funFtr bracket a lowered function body. %[1]s is the LLVM
// return type, %[2]s the mangled function name, %[3]s the comma-joined
// typed parameter list.
const funHdr = "\ndefine dso_local %[1]s @%[2]s(%[3]s) {\n"
const funFtr = "}\n"

// opTable maps an IL arithmetic/comparison operator to its LLVM mnemonic
// (spec.md §4.6).
var opTable = map[string]string{
	"add": "add", "mul": "mul", "sub": "sub", "div": "sdiv",
	"eq": "icmp eq", "lt": "icmp slt", "gt": "icmp sgt",
	"le": "icmp sle", "ge": "icmp sge", "and": "and", "or": "or",
}

// mainTemplate wraps generated __main in a C-callable main that parses
// argv into typed arguments and bails with the program's expected-arity
// message on mismatch. %[1]d/%[2]d are the expected argument count
// (twice, once for the comparison and once for the printf operand),
// %[3]s is the per-argument argv-decoding prologue, %[4]s the
// comma-joined typed argument list passed to __main.
const mainTemplate = `
define dso_local i32 @main(i32 %%argc, i8** %%argv) {
  %%1 = alloca i32, align 4
  %%2 = alloca i32, align 4
  %%3 = alloca i8**, align 8
  store i32 0, i32* %%1, align 4
  store i32 %%argc, i32* %%2, align 4
  store i8** %%argv, i8*** %%3, align 8
  %%4 = load i32, i32* %%2, align 4
  %%5 = sub nsw i32 %%4, 1
  %%6 = icmp ne i32 %%5, %[1]d  ; NUM ARGS
  br i1 %%6, label %%7, label %%11

7:
  %%8 = load i32, i32* %%2, align 4
  %%9 = sub nsw i32 %%8, 1
  %%10 = call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([33 x i8], [33 x i8]* @.str.4, i64 0, i64 0), i32 %[2]d, i32 %%9)
  call void @exit(i32 2) #3
  unreachable

11:
  %%12 = load i8**, i8*** %%3, align 8
%[3]s
  call void @__main(%[4]s)
  ret i32 0
}
`

// argvIntTemplate and argvBoolTemplate decode main's i-th argv entry
// into a typed local %ai. %[1]d is the argument index, %[2]d its
// pointer offset into argv (index + 1, past argv[0]).
const argvIntTemplate = `
  %%t%[1]d_0 = getelementptr inbounds i8*, i8** %%12, i64 %[2]d
  %%t%[1]d_1 = load i8*, i8** %%t%[1]d_0, align 8
  %%a%[1]d = call i64 @atol(i8* %%t%[1]d_1)
`

const argvBoolTemplate = `
  %%t%[1]d_0 = getelementptr inbounds i8*, i8** %%12, i64 %[2]d
  %%t%[1]d_1 = load i8*, i8** %%t%[1]d_0, align 8
  %%t%[1]d_2 = call i32 @btoi(i8* %%t%[1]d_1)
  %%a%[1]d = trunc i32 %%t%[1]d_2 to i1
`
