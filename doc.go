// Package calcexpr implements a floating-point calculator that prefers exact
// answers.
//
// Expressions are written the way a calculator user types them. "2(3+4)" and
// "2x" are multiplications, "sin30" is the sine of 30, and "π" and "e" stand
// for their constants. "-2^2" is -(2^2), and "2^3^2" is 2^(3^2). "5!" is a
// factorial. Trigonometric functions work in degrees or radians according to
// the context's angle mode.
//
// Results are snapped to the exact value they approximate when they are
// within a tiny tolerance of it, so sin(30) in degrees is exactly 0.5 and
// 0.1+0.2 is exactly 0.3. See Normalize.
//
// Variables let you parse an expression once and evaluate it for many inputs,
// or you can clone contexts for several expressions to use the same variable
// definitions everywhere.
package calcexpr
