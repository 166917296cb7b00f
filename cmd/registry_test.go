package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegistry_Register_Apply(t *testing.T) {
	out := &bytes.Buffer{}
	Register(&cobra.Command{
		Use:   "catalog:ping",
		Short: "Check that the CLI wiring is alive",
		Run: func(c *cobra.Command, args []string) {
			out.WriteString("catalog ok")
		},
	})
	Apply()

	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"catalog:ping"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.String() != "catalog ok" {
		t.Errorf("output = %q, want catalog ok", out.String())
	}
}
