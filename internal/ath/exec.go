package ath

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
)

type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

type Runner struct {
	Client    AthenaAPI
	Workgroup string
	Database  string
	OutputS3  string // optional s3://bucket/prefix/ when the workgroup has no default
	Poll      time.Duration
	Logger    *log.Logger
}

// ExecAndWait submits sql and blocks until it reaches a terminal state. Returns the query id.
func (r *Runner) ExecAndWait(ctx context.Context, sql string) (string, error) {
	in := &athena.StartQueryExecutionInput{
		QueryString: aws.String(sql),
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: aws.String(r.Database),
		},
		WorkGroup: aws.String(r.Workgroup),
	}
	if r.OutputS3 != "" {
		in.ResultConfiguration = &types.ResultConfiguration{OutputLocation: aws.String(r.OutputS3)}
	}
	startOut, err := r.Client.StartQueryExecution(ctx, in)
	if err != nil {
		return "", fmt.Errorf("start query: %w", err)
	}
	qid := aws.ToString(startOut.QueryExecutionId)
	r.logf("athena: qid=%s started", qid)

	poll := r.Poll
	if poll <= 0 {
		poll = time.Second
	}
	tick := time.NewTicker(poll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return qid, ctx.Err()
		case <-tick.C:
			ge, err := r.Client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
				QueryExecutionId: aws.String(qid),
			})
			if err != nil {
				return qid, fmt.Errorf("get query execution: %w", err)
			}
			qe := ge.QueryExecution
			if qe == nil || qe.Status == nil {
				continue
			}
			switch qe.Status.State {
			case types.QueryExecutionStateSucceeded:
				var scannedMB float64
				if qe.Statistics != nil && qe.Statistics.DataScannedInBytes != nil {
					scannedMB = float64(*qe.Statistics.DataScannedInBytes) / 1024.0 / 1024.0
				}
				r.logf("athena: qid=%s SUCCEEDED (data scanned=%.3f MB)", qid, scannedMB)
				return qid, nil
			case types.QueryExecutionStateFailed, types.QueryExecutionStateCancelled:
				msg := "unknown error"
				if qe.Status.AthenaError != nil && qe.Status.AthenaError.ErrorMessage != nil {
					msg = aws.ToString(qe.Status.AthenaError.ErrorMessage)
				} else if qe.Status.StateChangeReason != nil {
					msg = aws.ToString(qe.Status.StateChangeReason)
				}
				return qid, errors.New("athena " + string(qe.Status.State) + ": " + msg)
			default:
				// still running
			}
		}
	}
}

// CountRows runs a query returning a single BIGINT (e.g. COUNT(*)).
func (r *Runner) CountRows(ctx context.Context, sql string) (int64, error) {
	qid, err := r.ExecAndWait(ctx, sql)
	if err != nil {
		return 0, err
	}
	gr, err := r.Client.GetQueryResults(ctx, &athena.GetQueryResultsInput{
		QueryExecutionId: aws.String(qid),
	})
	if err != nil {
		return 0, fmt.Errorf("get results: %w", err)
	}
	// row 0 is header; row 1 is value
	if gr.ResultSet == nil || len(gr.ResultSet.Rows) < 2 || len(gr.ResultSet.Rows[1].Data) < 1 || gr.ResultSet.Rows[1].Data[0].VarCharValue == nil {
		return 0, errors.New("unexpected COUNT(*) result shape")
	}
	var n int64
	if _, err := fmt.Sscan(*gr.ResultSet.Rows[1].Data[0].VarCharValue, &n); err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return n, nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}
