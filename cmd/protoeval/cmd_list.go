package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"protoeval/internal/evalset"
)

var listFlags struct {
	cases string
	root  string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Load and validate the cases file without invoking the agent",
	RunE:  runList,
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listFlags.cases, "cases", "evals/cases.yaml", "Path to the cases file")
	f.StringVar(&listFlags.root, "root", ".", "Harness root; fixture paths resolve relative to it")
}

func runList(cmd *cobra.Command, _ []string) error {
	cases, err := evalset.Load(listFlags.root, listFlags.cases)
	if err != nil {
		return err
	}

	for i, c := range cases {
		expect := "clean"
		if !c.ExpectClean {
			expect = fmt.Sprintf("%s [%s]", c.Severity, strings.Join(c.Keywords, ", "))
		}
		fmt.Printf("%2d  %-8s %-40s %s\n", i+1, c.Kind, c.Fixture, expect)
	}
	fmt.Printf("\n%d cases OK\n", len(cases))
	return nil
}
