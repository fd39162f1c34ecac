package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tyler180/pfr-players/internal/pfr"
	"github.com/tyler180/pfr-players/internal/roster"
)

type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// PlayerKey is the partition key for a row: the PFR id when the profile link is known,
// otherwise LAST#FIRST#YEARBEGIN.
func PlayerKey(r pfr.PlayerRecord) string {
	if id := pfr.PlayerID(r.URL); id != "" {
		return id
	}
	return strings.ToUpper(r.LastName) + "#" + strings.ToUpper(r.FirstName) + "#" + strconv.Itoa(r.YearBegin)
}

// PutPlayers upserts rows into table. PK=PlayerID (S).
func PutPlayers(ctx context.Context, ddb DynamoDBAPI, table string, rows []roster.Row) error {
	if len(rows) == 0 {
		return nil
	}
	const maxBatch = 25
	now := strconv.FormatInt(time.Now().Unix(), 10)

	for i := 0; i < len(rows); i += maxBatch {
		end := i + maxBatch
		if end > len(rows) {
			end = len(rows)
		}

		// a batch may not contain the same key twice
		seen := make(map[string]struct{}, end-i)
		reqs := make([]types.WriteRequest, 0, end-i)
		for _, r := range rows[i:end] {
			key := PlayerKey(r.PlayerRecord)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			item := map[string]types.AttributeValue{
				"PlayerID":  &types.AttributeValueMemberS{Value: key},
				"FirstName": &types.AttributeValueMemberS{Value: r.FirstName},
				"LastName":  &types.AttributeValueMemberS{Value: r.LastName},
				"Pos":       &types.AttributeValueMemberS{Value: r.Position},
				"YearBegin": &types.AttributeValueMemberN{Value: strconv.Itoa(r.YearBegin)},
				"YearEnd":   &types.AttributeValueMemberN{Value: strconv.Itoa(r.YearEnd)},
				"UpdatedAt": &types.AttributeValueMemberN{Value: now},
			}
			if r.URL != "" {
				item["URL"] = &types.AttributeValueMemberS{Value: r.URL}
			}
			reqs = append(reqs, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}
		if err := batchWriteWithRetry(ctx, ddb, table, reqs); err != nil {
			return fmt.Errorf("batch write players: %w", err)
		}
	}
	return nil
}

func batchWriteWithRetry(ctx context.Context, ddb DynamoDBAPI, table string, reqs []types.WriteRequest) error {
	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: reqs},
	}
	const maxAttempts = 6
	backoff := 120 * time.Millisecond

	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := ddb.BatchWriteItem(ctx, input)
		if err != nil {
			return err
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		input.RequestItems = out.UnprocessedItems
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 2*time.Second {
			backoff += 120 * time.Millisecond
		}
	}
	return fmt.Errorf("unprocessed items remained after retries for table %s", table)
}
