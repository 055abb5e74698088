// Command xsdpathfind matches an XML document against a precompiled
// content-model state machine and prints the canonical traversal.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jacoelho/xsdpath"
	patherrors "github.com/jacoelho/xsdpath/errors"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var machinePath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:           "xsdpathfind --machine <machine.json> <document.xml>",
		Short:         "Find the canonical schema traversal of an XML document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, machinePath, args[0], asJSON)
			if err != nil {
				reportError(cmd.ErrOrStderr(), err)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&machinePath, "machine", "", "path to the state-machine description (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "render the traversal as JSON")
	_ = cmd.MarkFlagRequired("machine")

	return cmd
}

func run(cmd *cobra.Command, machinePath, docPath string, asJSON bool) error {
	machine, err := xsdpath.LoadMachineFile(machinePath)
	if err != nil {
		return err
	}

	doc, err := os.Open(docPath)
	if err != nil {
		return errors.Wrapf(err, "opening document %s", docPath)
	}
	defer doc.Close()

	found, err := xsdpath.Find(machine, doc)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := found.JSON()
		if err != nil {
			return errors.Wrap(err, "rendering traversal")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	for _, step := range found.Steps() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-18s iteration=%d\n",
			step.Direction, step.Name, step.Iteration)
	}
	return nil
}

func reportError(w io.Writer, err error) {
	red := color.New(color.FgRed)
	if t, ok := patherrors.AsTraversal(err); ok {
		red.Fprintf(w, "error: [%s] %s\n", t.Code, t.Message)
		if t.Events != "" {
			fmt.Fprintf(w, "  events: %s\n", t.Events)
		}
		return
	}
	red.Fprintf(w, "error: %v\n", err)
}
