// Package qreg compiles and runs backtracking regular expressions with
// nested, multi-occurrence capture groups, atomic groups, and
// backreferences — constructs a Thompson-NFA/DFA engine cannot express
// without giving up correctness or exponential blowup protection. qreg
// trades that guarantee for expressiveness: pattern compilation never
// hangs, but pathological patterns can make a match attempt slow.
//
// A typical pattern and match:
//
//	re, err := qreg.Compile(`([A-Za-z0-9]+)@([A-Za-z0-9]+)\.com`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m := re.MatchString("contact: dev@example.com", qreg.FlagNone)
//	if m.Matched() {
//	    fmt.Println(m.Sub[1], m.Sub[2]) // [dev] [example]
//	}
package qreg
