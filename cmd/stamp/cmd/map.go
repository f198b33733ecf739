package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/stamp/internal/export"
	"github.com/stamp/internal/session"
	"github.com/stamp/pkg/mapping"
	"github.com/stamp/pkg/model"
	"github.com/stamp/pkg/writer"
)

var tracer = otel.Tracer("github.com/stamp/cmd/stamp")

type mapOptions struct {
	input   string
	output  string
	format  string
	id      string
	keep    bool
	store   bool
	publish bool
}

func newMapCmd() *cobra.Command {
	opts := &mapOptions{}

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Build and export the mapping of a descriptor document",
		Long: `Build the class mapping of a descriptor document (JSON or YAML) and export it.

Members carrying the preserve annotation (mapping.preserve_annotation) keep
their original names and lose the annotation unless --keep-annotations is set.

Output formats:
  - json : mapping snapshot as JSON (default)
  - gzip : mapping snapshot as gzipped JSON
  - zstd : mapping snapshot as zstd compressed JSON
  - srg  : SRG table with CL/FD/MD lines for renamed entries`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMap(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Descriptor document (.json, .yaml, optionally .gz or .zst) (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default output.dir)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Export format: json, gzip, zstd or srg (default output.format)")
	cmd.Flags().StringVar(&opts.id, "id", "", "Snapshot ID (generated if empty)")
	cmd.Flags().BoolVar(&opts.keep, "keep-annotations", false, "Keep preserve annotations in the document")
	cmd.Flags().BoolVar(&opts.store, "store", false, "Save the snapshot to the database")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Upload the export to object storage")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runMap(cmd *cobra.Command, opts *mapOptions) error {
	cfg, logger := current.cfg, current.logger

	ctx, span := tracer.Start(cmd.Context(), "stamp.map")
	defer span.End()

	format := opts.format
	if format == "" {
		format = cfg.Output.Format
	}
	w, err := export.WriterFor(export.Format(format), cfg.Output.Pretty)
	if err != nil {
		return err
	}
	outDir := opts.output
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	doc, sess, err := buildSession(ctx, &cfg.Mapping, logger, opts.input)
	if err != nil {
		span.RecordError(err)
		return err
	}

	report, err := sess.ApplyPreservation(doc, mapping.AnnotationTypeOf(cfg.Mapping.PreserveAnnotation), !opts.keep)
	if err != nil {
		span.RecordError(err)
		return err
	}
	logger.Info("Preserved %d fields and %d methods", report.Fields, report.Methods)

	id := opts.id
	if id == "" {
		id = snapshotID(opts.input, current)
	}
	snap := export.BuildSnapshot(sess, id, current.clock)
	span.SetAttributes(attribute.String("stamp.snapshot_id", id))

	res, err := export.WriteSnapshot(ctx, snap, w, outDir)
	if err != nil {
		return err
	}
	logger.Info("Wrote %s (%d bytes)", res.Path, res.Size)

	if opts.store {
		repo, closeRepo, err := openSnapshotRepository(ctx, &cfg.Database)
		if err != nil {
			return err
		}
		defer closeRepo()
		if err := repo.SaveSnapshot(ctx, snap); err != nil {
			return err
		}
		logger.Info("Stored snapshot %s", id)
	}

	var urls []string
	if opts.publish {
		store, err := openStorage(&cfg.Storage)
		if err != nil {
			return err
		}
		urls, err = export.NewPublisher(store, cfg.Storage.Prefix, logger).Publish(ctx, id, res.Path)
		if err != nil {
			return err
		}
	}

	printMapSummary(cmd.OutOrStdout(), snap, report, res, urls)
	return nil
}

// snapshotID derives an ID from the input name and the current time.
func snapshotID(input string, a *app) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return fmt.Sprintf("%s-%s", base, a.clock.Now().Format("20060102T150405Z"))
}

func printMapSummary(out io.Writer, snap *model.MappingSnapshot, report session.PreservationReport, res *writer.WriteResult, urls []string) {
	st := snap.Stats

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Snapshot", snap.ID})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	table.Append([]string{"Classes", fmt.Sprintf("%d", st.Classes)})
	table.Append([]string{"Renamed classes", fmt.Sprintf("%d", st.Obfuscated)})
	table.Append([]string{"Library classes", fmt.Sprintf("%d", st.Library)})
	table.Append([]string{"Fields", fmt.Sprintf("%d", st.Fields)})
	table.Append([]string{"Methods", fmt.Sprintf("%d", st.Methods)})
	table.Append([]string{"Preserved members", fmt.Sprintf("%d", st.Preserved)})
	table.Append([]string{"Annotations stripped", fmt.Sprintf("%d", report.Stripped)})
	table.SetFooter([]string{filepath.Base(res.Path), fmt.Sprintf("%d bytes", res.Size)})
	table.Render()

	for _, u := range urls {
		fmt.Fprintf(out, "Published: %s\n", u)
	}
}
