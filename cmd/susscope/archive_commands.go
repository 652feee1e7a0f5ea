package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SoonerRobotics/SusScope/internal/archive"
	"github.com/SoonerRobotics/SusScope/internal/protocol"
)

func newLogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "log <archive>",
		Short: "Print the session log of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data, err := archive.ReadMember(args[0], config.LogMember)
			if err != nil {
				return fmt.Errorf("read %s from %s: %w", config.LogMember, args[0], err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), strings.ToValidUTF8(string(data), "�"))
			return err
		},
	}
}

func newClipsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var filter string

	cmd := &cobra.Command{
		Use:   "clips <archive>",
		Short: "List the video clips in an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := archive.ListMembers(args[0])
			if err != nil {
				return err
			}
			clips := make([]archive.Member, 0, len(members))
			for _, m := range members {
				if archive.IsClip(m.Name) {
					clips = append(clips, m)
				}
			}
			clips = archive.FilterMembers(clips, filter)

			if asJSON {
				return writeJSON(cmd, clips)
			}
			out := cmd.OutOrStdout()
			if len(clips) == 0 {
				fmt.Fprintln(out, "Clips: none")
				return nil
			}
			if isTerminal(out) {
				rows := make([][]string, 0, len(clips))
				for _, clip := range clips {
					rows = append(rows, []string{clip.Name, humanize.Bytes(uint64(clip.Size)), humanize.Time(clip.Modified)})
				}
				fmt.Fprintln(out, renderTable([]string{"Clip", "Size", "Modified"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
				return nil
			}
			for _, clip := range clips {
				fmt.Fprintf(out, "%-40s %10s  %s\n", clip.Name, humanize.Bytes(uint64(clip.Size)), humanize.Time(clip.Modified))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy filter on clip names")
	return cmd
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <archive> <clip>",
		Short: "Transcode a clip into the cache and print its path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			trans := newTranscoder(config)
			defer trans.Cleanup()

			path, err := trans.Resolve(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, map[string]string{"path": path, "uri": protocol.URIFor(path)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Path: %s\nURI:  %s\n", path, protocol.URIFor(path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
