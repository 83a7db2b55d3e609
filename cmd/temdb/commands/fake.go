package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/temdb/temdb-go/errors"
	"github.com/temdb/temdb-go/fake"
	"github.com/temdb/temdb-go/logger"
	"github.com/temdb/temdb-go/temdb"
)

// FakeCmd populates a TEMdb instance with synthetic data
var FakeCmd = &cobra.Command{
	Use:   "fake <url>",
	Short: "Populate a TEMdb instance with synthetic test data",
	Long: `Populate a running TEMdb instance with a synthetic specimen hierarchy:
specimen, blocks, cutting sessions, sections, ROIs, imaging sessions,
acquisitions and tiles, with realistic geometry and metadata.

The walk is strictly top-down: every record is created before any record
that references it. A failed request aborts the run; records created up
to that point remain in the database.

Examples:
  temdb fake http://localhost:8000
  temdb fake http://localhost:8000 --num-blocks 4 --sections-per-session 20
  temdb fake http://localhost:8000 --seed 42 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]

		jsonOutput, _ := cmd.Flags().GetBool("json")
		verbosity, _ := cmd.Root().PersistentFlags().GetCount("verbose")

		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return errors.Wrap(err, "initializing logger")
		}

		params := fake.DefaultParams()
		params.TileSize, _ = cmd.Flags().GetInt("tile-size")
		params.Overlap, _ = cmd.Flags().GetFloat64("overlap")
		params.StageSize, _ = cmd.Flags().GetInt("stage-size")
		params.NumBlocks, _ = cmd.Flags().GetInt("num-blocks")
		params.CuttingSessionsPerBlock, _ = cmd.Flags().GetInt("cutting-sessions-per-block")
		params.SectionsPerSession, _ = cmd.Flags().GetInt("sections-per-session")
		params.ROIsPerImagingSession, _ = cmd.Flags().GetInt("rois-per-imaging-session")
		params.Seed, _ = cmd.Flags().GetInt64("seed")

		timeout, _ := cmd.Flags().GetDuration("timeout")
		rateLimit, _ := cmd.Flags().GetFloat64("rate-limit")

		log := logger.Named("temdb.fake")

		clientOpts := []temdb.Option{
			temdb.WithTimeout(timeout),
			temdb.WithLogger(logger.Named("temdb.client")),
		}
		if rateLimit > 0 {
			clientOpts = append(clientOpts, temdb.WithRateLimit(rateLimit))
		}

		client, err := temdb.NewClient(url, clientOpts...)
		if err != nil {
			return errors.Wrap(err, "creating TEMdb client")
		}
		defer client.Close()

		var emitter fake.ProgressEmitter
		if jsonOutput {
			emitter = fake.NewJSONEmitter()
		} else {
			emitter = fake.NewCLIEmitter(verbosity)
		}

		gen, err := fake.NewGenerator(client, params,
			fake.WithProgressEmitter(emitter),
			fake.WithGeneratorLogger(log),
		)
		if err != nil {
			return err
		}

		summary, err := gen.Run(cmd.Context())
		if err != nil {
			emitter.EmitError("generation", err)
			if errors.IsNotFoundError(err) {
				return errors.Wrap(err, "resource not found")
			}
			return errors.Wrap(err, "data generation failed")
		}

		log.Infow("run finished",
			"blocks", summary.Blocks,
			"rois", summary.ROIs,
			"imaging_sessions", summary.ImagingSessions,
			"total_tiles", summary.TotalTiles,
		)
		return nil
	},
}

func init() {
	FakeCmd.Flags().Int("tile-size", 21512, "Tile size in nm")
	FakeCmd.Flags().Float64("overlap", 0.06, "Tile overlap as a fraction of tile size")
	FakeCmd.Flags().Int("stage-size", 100000, "Stage extent in nm")
	FakeCmd.Flags().Int("num-blocks", 2, "Number of blocks to create")
	FakeCmd.Flags().Int("cutting-sessions-per-block", 1, "Cutting sessions per block")
	FakeCmd.Flags().Int("sections-per-session", 10, "Sections per cutting session")
	FakeCmd.Flags().Int("rois-per-imaging-session", 5, "ROIs batched into each imaging session")
	FakeCmd.Flags().Int64("seed", 0, "Random seed (0 derives one from the clock)")
	FakeCmd.Flags().Bool("json", false, "Emit progress as JSON events on stdout")
	FakeCmd.Flags().Duration("timeout", 30*time.Second, "Per-request timeout")
	FakeCmd.Flags().Float64("rate-limit", 0, "Maximum requests per second (0 disables limiting)")
}
