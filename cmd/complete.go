package cmd

import (
	"flag"

	"github.com/etnz/warehouse/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete runs the shell completion when the shell asks for it, and exits.
// Otherwise it returns immediately.
//
// Install it in bash with:
//
//	COMP_INSTALL=1 whs
func Complete() { completion().Complete("whs") }

// completion describes the subcommands and their flags.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: make(map[string]complete.Predictor),
	}
	flag.CommandLine.VisitAll(func(f *flag.Flag) { root.Flags[f.Name] = predictFlag(f) })

	for _, c := range commands() {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: make(map[string]complete.Predictor)}
		fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = predictFlag(f) })
		switch c.Name() {
		case "import":
			sub.Args = predict.Files("*.json")
		case "item-import":
			sub.Args = predict.Files("*.xlsx")
		case "topic":
			sub.Args = predict.Set(docs.Names())
		}
		root.Sub[c.Name()] = sub
	}
	return root
}

// predictFlag predicts the value of a flag from its name. Boolean flags take
// no value.
func predictFlag(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return nil
	}
	switch f.Name {
	case "storage":
		return predict.Set{"dir", "sqlite", "memory"}
	case "status":
		return predict.Set{"AVAILABLE", "SHIPPED"}
	case "type":
		return predict.Set{"SUPPLIER", "CUSTOMER", "BOTH"}
	case "p":
		return predict.Set{"day", "week", "month", "year"}
	case "enc":
		return predict.Set{"utf-8", "euc-kr"}
	case "xlsx":
		return predict.Files("*.xlsx")
	case "tsv":
		return predict.Files("*.tsv")
	case "o":
		return predict.Files("*.json")
	case "data":
		return predict.Dirs("*")
	}
	return predict.Something
}
