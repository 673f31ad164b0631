package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"podscribe/internal/device"
	"podscribe/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, external tools and the compute device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			fmt.Fprintln(out, renderSectionHeader("Preflight", colorize))
			for _, r := range results {
				kind := statusOK
				switch {
				case !r.Passed && r.Optional:
					kind = statusWarn
				case !r.Passed:
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}

			fmt.Fprintln(out, renderSectionHeader("Transcription", colorize))
			fmt.Fprintln(out, renderStatusLine("Engine", statusInfo, cfg.Transcription.Engine+" / "+cfg.Transcription.Model, colorize))
			target, err := device.Probe(cmd.Context(), cfg.Transcription.Device)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Device", statusError, err.Error(), colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Device", statusInfo, fmt.Sprintf("%s (preference %s)", target, cfg.Transcription.Device), colorize))
			}
			fmt.Fprintln(out, renderStatusLine("History", statusInfo, yesNo(cfg.History.Enabled), colorize))

			if blocking := preflight.Blocking(results); len(blocking) > 0 {
				return fmt.Errorf("%d required check(s) failed", len(blocking))
			}
			return nil
		},
	}
}
