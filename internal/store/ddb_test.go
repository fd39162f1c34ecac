package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tyler180/pfr-players/internal/pfr"
	"github.com/tyler180/pfr-players/internal/roster"
)

// fake client implementing DynamoDBAPI
type fakeDDB struct {
	calls int
	// simulate first attempt returning unprocessed, second succeeds
	failFirst bool
	items     []map[string]types.AttributeValue
}

func (f *fakeDDB) BatchWriteItem(ctx context.Context, in *ddb.BatchWriteItemInput, _ ...func(*ddb.Options)) (*ddb.BatchWriteItemOutput, error) {
	f.calls++
	if f.failFirst {
		f.failFirst = false
		return &ddb.BatchWriteItemOutput{
			UnprocessedItems: in.RequestItems,
		}, nil
	}
	for _, reqs := range in.RequestItems {
		for _, r := range reqs {
			f.items = append(f.items, r.PutRequest.Item)
		}
	}
	return &ddb.BatchWriteItemOutput{}, nil
}

func TestPutPlayers_BatchingAndRetry(t *testing.T) {
	// 30 rows → 25 + 5 batches
	var recs []pfr.PlayerRecord
	for i := 0; i < 30; i++ {
		recs = append(recs, pfr.PlayerRecord{
			FirstName: "P",
			LastName:  fmt.Sprintf("L%02d", i),
			Position:  "WR",
			YearBegin: 2010,
			YearEnd:   2020,
			URL:       fmt.Sprintf("https://www.pro-football-reference.com/players/L/Lxx%02d.htm", i),
		})
	}
	rows := roster.NewTable(recs).Rows()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fc := &fakeDDB{failFirst: true}
	if err := PutPlayers(ctx, fc, "tbl", rows); err != nil {
		t.Fatalf("PutPlayers error: %v", err)
	}
	// first batch is attempted twice (one retry), second batch once
	if fc.calls != 3 {
		t.Fatalf("expected 3 BatchWriteItem calls, got %d", fc.calls)
	}
	if len(fc.items) != 30 {
		t.Fatalf("expected 30 items written, got %d", len(fc.items))
	}
	pk, ok := fc.items[0]["PlayerID"].(*types.AttributeValueMemberS)
	if !ok || pk.Value != "Lxx00" {
		t.Fatalf("unexpected PlayerID attr: %#v", fc.items[0]["PlayerID"])
	}
}

func TestPutPlayers_DedupWithinBatch(t *testing.T) {
	rec := pfr.PlayerRecord{FirstName: "Tom", LastName: "Brady", Position: "QB", YearBegin: 2000, YearEnd: 2022}
	rows := roster.NewTable([]pfr.PlayerRecord{rec, rec}).Rows()

	fc := &fakeDDB{}
	if err := PutPlayers(context.Background(), fc, "tbl", rows); err != nil {
		t.Fatalf("PutPlayers error: %v", err)
	}
	if len(fc.items) != 1 {
		t.Fatalf("expected duplicate key dropped, got %d items", len(fc.items))
	}
	if _, ok := fc.items[0]["URL"]; ok {
		t.Fatal("URL attr should be omitted when empty")
	}
}

func TestPlayerKey(t *testing.T) {
	withURL := pfr.PlayerRecord{LastName: "Brady", FirstName: "Tom", YearBegin: 2000, URL: "https://www.pro-football-reference.com/players/B/BradTo00.htm"}
	if got := PlayerKey(withURL); got != "BradTo00" {
		t.Fatalf("PlayerKey with url = %q", got)
	}
	noURL := pfr.PlayerRecord{LastName: "Brady", FirstName: "Tom", YearBegin: 2000}
	if got := PlayerKey(noURL); got != "BRADY#TOM#2000" {
		t.Fatalf("PlayerKey without url = %q", got)
	}
}

func TestPutPlayers_Empty(t *testing.T) {
	fc := &fakeDDB{}
	if err := PutPlayers(context.Background(), fc, "tbl", nil); err != nil {
		t.Fatalf("PutPlayers error: %v", err)
	}
	if fc.calls != 0 {
		t.Fatalf("expected no calls, got %d", fc.calls)
	}
}
