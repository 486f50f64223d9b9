package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check connectivity to the remote judge",
	Args:  cobra.NoArgs,
	RunE:  runProbe,
}

func runProbe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}

	res := a.Analysis.ProbeRemote(cmd.Context())
	out := cmd.OutOrStdout()
	if res.Tier != "" {
		fmt.Fprintf(out, "Tier:    %s\n", res.Tier)
	}
	fmt.Fprintf(out, "Success: %t\n", res.OK)
	fmt.Fprintf(out, "Message: %s\n", res.Message)
	if !res.OK {
		return fmt.Errorf("remote judge probe failed")
	}
	return nil
}
