package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tttuuu13/aeroexpress-bot/internal/codec"
	"github.com/tttuuu13/aeroexpress-bot/internal/fsstore"
	"github.com/tttuuu13/aeroexpress-bot/internal/query"
	"github.com/tttuuu13/aeroexpress-bot/internal/schedule"
)

func newDecodeCmd() *cobra.Command {
	var (
		contentType string
		origin      string
		destination string
		sortBy      string
		to          string
		out         string
	)
	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Decode a schedule file offline and optionally filter, sort or convert it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			var in codec.Codec
			if strings.TrimSpace(contentType) != "" {
				in, err = codec.ForContentType(contentType)
			} else {
				in, err = codec.ForFilename(path)
			}
			if err != nil {
				return err
			}
			records, err := in.Decode(data)
			if err != nil {
				return err
			}

			records, err = applyQuery(records, origin, destination, sortBy)
			if err != nil {
				return err
			}

			if strings.TrimSpace(to) == "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d records (%s)\n", len(records), in.Format())
				return nil
			}
			format, err := parseFormat(to)
			if err != nil {
				return err
			}
			enc, err := codec.ForFormat(format)
			if err != nil {
				return err
			}
			encoded := enc.Encode(records)
			if strings.TrimSpace(out) == "" {
				_, err = cmd.OutOrStdout().Write(encoded)
				return err
			}
			if err := fsstore.WriteTextAtomic(out, string(encoded), fsstore.FileOptions{Perm: 0o644}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "", "Pick the decoder by MIME type instead of file extension.")
	cmd.Flags().StringVar(&origin, "origin", "", "Keep only trains departing from this station.")
	cmd.Flags().StringVar(&destination, "destination", "", "Keep only trains arriving at this station.")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by departure|arrival.")
	cmd.Flags().StringVar(&to, "to", "", "Re-encode as csv|json.")
	cmd.Flags().StringVar(&out, "out", "", "Write the re-encoded file here instead of stdout.")
	return cmd
}

func applyQuery(records []schedule.TrainRecord, origin, destination, sortBy string) ([]schedule.TrainRecord, error) {
	switch {
	case origin != "" && destination != "":
		records = query.FilterRoute(records, origin, destination)
	case origin != "":
		records = query.Filter(records, schedule.FieldOrigin, origin)
	case destination != "":
		records = query.Filter(records, schedule.FieldDestination, destination)
	}
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "":
	case "departure":
		records = query.Sort(records, query.SortByDeparture)
	case "arrival":
		records = query.Sort(records, query.SortByArrival)
	default:
		return nil, fmt.Errorf("unknown sort key %q (want departure|arrival)", sortBy)
	}
	return records, nil
}

func parseFormat(s string) (codec.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return codec.FormatCSV, nil
	case "json":
		return codec.FormatJSON, nil
	default:
		return 0, fmt.Errorf("unknown format %q (want csv|json)", s)
	}
}
