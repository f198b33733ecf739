package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	apperrors "github.com/stamp/pkg/errors"
	"github.com/stamp/pkg/mapping"
)

type inspectOptions struct {
	input  string
	class  string
	method string
}

func newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the mapping of one class",
		Long: `Build the mapping of a descriptor document and show one class: its
obfuscated name, supertypes and members. With --method the method is
resolved through the superclass chain and the interfaces.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Descriptor document (.json, .yaml) (required)")
	cmd.Flags().StringVar(&opts.class, "class", "", "Internal class name, e.g. com/example/Foo (required)")
	cmd.Flags().StringVar(&opts.method, "method", "", "Method to resolve as <name><descriptor>, e.g. run()V")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

func runInspect(cmd *cobra.Command, opts *inspectOptions) error {
	ctx, span := tracer.Start(cmd.Context(), "stamp.inspect")
	defer span.End()

	_, sess, err := buildSession(ctx, &current.cfg.Mapping, current.logger, opts.input)
	if err != nil {
		return err
	}

	name := strings.ReplaceAll(opts.class, ".", "/")
	c, ok := sess.Get(name)
	if !ok {
		return apperrors.Newf(apperrors.CodeNotFound, "class not found: %s", name)
	}

	out := cmd.OutOrStdout()
	printClass(out, c)

	if opts.method == "" {
		return nil
	}
	m, err := sess.ResolveMethod(name, opts.method)
	if err != nil {
		return err
	}
	target := m.Name()
	if obf, ok := m.ObfName(); ok {
		target = obf
	}
	fmt.Fprintf(out, "\nResolved %s -> %s (declared in %s)\n", opts.method, target, m.Owner())
	return nil
}

func printClass(out io.Writer, c *mapping.ClassMap) {
	fmt.Fprintf(out, "Class:      %s\n", c.Name())
	if obf, ok := c.ObfName(); ok {
		fmt.Fprintf(out, "Renamed to: %s\n", obf)
	}
	if parent, ok := c.Parent(); ok {
		fmt.Fprintf(out, "Extends:    %s\n", parent)
	}
	if c.HasInterfaces() {
		fmt.Fprintf(out, "Implements: %s\n", strings.Join(c.Interfaces(), ", "))
	}
	fmt.Fprintf(out, "Library:    %t\n\n", c.IsLibrary())

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Kind", "Member", "Renamed", "Preserved"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
	})

	for _, f := range c.Fields() {
		obf, _ := f.ObfName()
		table.Append([]string{"field", f.Name() + " " + f.Desc(), obf, yesNo(f.Preserved())})
	}
	for _, m := range c.Methods() {
		obf, _ := m.ObfName()
		table.Append([]string{"method", m.ShortID(), obf, yesNo(m.Preserved())})
	}
	table.SetFooter([]string{"", fmt.Sprintf("%d fields, %d methods", len(c.Fields()), len(c.Methods())), "", ""})
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
