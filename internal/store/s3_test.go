package store

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	puts map[string]string
	err  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	if f.puts == nil {
		f.puts = map[string]string{}
	}
	f.puts[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestUploader_KeyAndLocation(t *testing.T) {
	u := &Uploader{Bucket: "b", Prefix: "/players/"}
	if got := u.Key("csv", "player_info.csv"); got != "players/csv/player_info.csv" {
		t.Fatalf("Key = %q", got)
	}
	if got := u.Location("csv"); got != "s3://b/players/csv/" {
		t.Fatalf("Location = %q", got)
	}
	u.Prefix = ""
	if got := u.Key("player_info.csv"); got != "player_info.csv" {
		t.Fatalf("Key without prefix = %q", got)
	}
}

func TestUploader_Put(t *testing.T) {
	fc := &fakeS3{}
	u := &Uploader{Client: fc, Bucket: "b", Prefix: "players"}
	if err := u.Put(context.Background(), u.Key("x.csv"), "text/csv", []byte("a,b\n")); err != nil {
		t.Fatalf("Put err: %v", err)
	}
	if got := fc.puts["b/players/x.csv"]; got != "a,b\n" {
		t.Fatalf("uploaded body = %q", got)
	}

	boom := errors.New("denied")
	u.Client = &fakeS3{err: boom}
	if err := u.Put(context.Background(), "k", "", nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
