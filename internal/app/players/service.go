package players

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tyler180/pfr-players/internal/ath"
	"github.com/tyler180/pfr-players/internal/materializer"
	"github.com/tyler180/pfr-players/internal/pfr"
	"github.com/tyler180/pfr-players/internal/roster"
	"github.com/tyler180/pfr-players/internal/store"
)

// Deps lets callers swap the listing source and AWS clients. Nil fields are built from Config.
type Deps struct {
	Source pfr.ListingSource
	DDB    store.DynamoDBAPI
	S3     store.S3API
	Athena ath.AthenaAPI
}

// LambdaEntrypoint is the single Lambda handler exported from this package.
func LambdaEntrypoint(ctx context.Context, raw Raw) (*Response, error) {
	var e Event
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
	}
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if cfg, err = cfg.Apply(e); err != nil {
		return nil, err
	}
	return Run(ctx, cfg, Deps{})
}

// Run scans the listing pages, filters the table and writes every configured output.
func Run(ctx context.Context, cfg Config, deps Deps) (*Response, error) {
	if cfg.Debug {
		log.Printf("players: source=%s letters=%d positions=%v min_year_end=%d out=%s",
			cfg.Source, len(cfg.Letters), cfg.Positions, cfg.MinYearEnd, cfg.OutputPath)
	}

	src := deps.Source
	closeSrc := func() {}
	if src == nil {
		s, closer, err := openSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		src, closeSrc = s, closer
	}
	defer closeSrc()

	recs, stats, err := pfr.Harvest(ctx, src, pfr.HarvestOptions{
		Letters:     cfg.Letters,
		Malformed:   cfg.Malformed,
		LetterDelay: cfg.LetterDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("harvest: %w", err)
	}
	// release the browser before the export stage
	closeSrc()
	log.Printf("players: scanned %d letters, %d entries, %d records (open-ended=%d skipped=%d) in %s",
		stats.Letters, stats.Entries, stats.Records, stats.OpenEnded, stats.Skipped, stats.Duration.Round(time.Millisecond))

	rows := roster.NewTable(recs).Filter(cfg.Positions, cfg.MinYearEnd).Rows()

	if err := roster.WriteCSVFile(cfg.OutputPath, rows, cfg.IncludeURL); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	log.Printf("OK players: wrote %d rows to %s", len(rows), cfg.OutputPath)

	resp := &Response{
		Letters:   stats.Letters,
		Scanned:   stats.Entries,
		Parsed:    stats.Records,
		OpenEnded: stats.OpenEnded,
		Skipped:   stats.Skipped,
		Kept:      len(rows),
		Output:    cfg.OutputPath,
	}

	if cfg.ParquetPath != "" {
		if err := roster.WriteParquetFile(cfg.ParquetPath, rows); err != nil {
			return nil, fmt.Errorf("write parquet: %w", err)
		}
		resp.Parquet = cfg.ParquetPath
	}

	if cfg.needsAWS() {
		if err := fillAWS(ctx, &deps); err != nil {
			return nil, err
		}
	}

	if cfg.OutputBucket != "" {
		up := &store.Uploader{Client: deps.S3, Bucket: cfg.OutputBucket, Prefix: cfg.OutputPrefix}
		csvKey := up.Key("csv", filepath.Base(cfg.OutputPath))
		if err := up.PutFile(ctx, csvKey, "text/csv", cfg.OutputPath); err != nil {
			return nil, err
		}
		resp.S3Keys = append(resp.S3Keys, csvKey)
		if cfg.ParquetPath != "" {
			pqKey := up.Key("parquet", filepath.Base(cfg.ParquetPath))
			if err := up.PutFile(ctx, pqKey, "application/vnd.apache.parquet", cfg.ParquetPath); err != nil {
				return nil, err
			}
			resp.S3Keys = append(resp.S3Keys, pqKey)
		}
		log.Printf("OK players: uploaded %d objects to s3://%s/%s", len(resp.S3Keys), cfg.OutputBucket, path.Dir(csvKey))

		if cfg.AthenaDB != "" {
			n, err := registerAthena(ctx, cfg, deps.Athena, up.Location("csv"))
			if err != nil {
				return nil, err
			}
			resp.AthenaTable = cfg.AthenaDB + "." + materializer.TableName
			resp.AthenaRows = n
		}
	}

	if cfg.PlayersTable != "" {
		if err := store.PutPlayers(ctx, deps.DDB, cfg.PlayersTable, rows); err != nil {
			return nil, err
		}
		resp.Table = cfg.PlayersTable
		log.Printf("OK players: wrote %d rows into %s", len(rows), cfg.PlayersTable)
	}

	resp.OK = true
	return resp, nil
}

// openSource builds the configured listing source. The returned closer is idempotent.
func openSource(ctx context.Context, cfg Config) (pfr.ListingSource, func(), error) {
	switch cfg.Source {
	case "http":
		return pfr.NewHTTPSource(cfg.BaseURL, cfg.PageTimeout, cfg.HTTPMaxAttempts), func() {}, nil
	default:
		b, err := pfr.NewBrowser(ctx, pfr.BrowserOptions{
			Base:        cfg.BaseURL,
			Headless:    cfg.Headless,
			PageTimeout: cfg.PageTimeout,
			ExecPath:    cfg.ChromePath,
		})
		if err != nil {
			return nil, nil, err
		}
		return b, func() {
			if err := b.Close(); err != nil && cfg.Debug {
				log.Printf("players: browser close: %v", err)
			}
		}, nil
	}
}

func fillAWS(ctx context.Context, deps *Deps) error {
	if deps.DDB != nil && deps.S3 != nil && deps.Athena != nil {
		return nil
	}
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("aws config: %w", err)
	}
	if deps.DDB == nil {
		deps.DDB = dynamodb.NewFromConfig(awsCfg)
	}
	if deps.S3 == nil {
		deps.S3 = s3.NewFromConfig(awsCfg)
	}
	if deps.Athena == nil {
		deps.Athena = athena.NewFromConfig(awsCfg)
	}
	return nil
}

// registerAthena (re)creates the external table over the uploaded CSV and returns its row count.
func registerAthena(ctx context.Context, cfg Config, client ath.AthenaAPI, location string) (int64, error) {
	r := &ath.Runner{
		Client:    client,
		Workgroup: cfg.AthenaWorkgroup,
		Database:  cfg.AthenaDB,
		OutputS3:  cfg.AthenaOutput,
		Poll:      cfg.AthenaPoll,
		Logger:    log.Default(),
	}
	// the column set may change with INCLUDE_URL, so drop first
	if _, err := r.ExecAndWait(ctx, materializer.BuildDrop(cfg.AthenaDB)); err != nil {
		log.Printf("WARN drop table failed: %v", err)
	}
	if _, err := r.ExecAndWait(ctx, materializer.BuildPlayerInfoTable(cfg.AthenaDB, location, cfg.IncludeURL)); err != nil {
		return 0, fmt.Errorf("create athena table: %w", err)
	}
	n, err := r.CountRows(ctx, materializer.BuildCount(cfg.AthenaDB))
	if err != nil {
		return 0, fmt.Errorf("count athena rows: %w", err)
	}
	log.Printf("athena: %s.%s rows=%d", cfg.AthenaDB, materializer.TableName, n)
	return n, nil
}
