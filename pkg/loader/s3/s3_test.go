package s3

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/guidechat/backend/pkg/loader"
)

type fakeObjectAPI struct {
	objects   map[string]string
	pages     [][]string
	getErr    error
	listCalls int
	gotKeys   []string
}

func (f *fakeObjectAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(params.Key)
	f.gotKeys = append(f.gotKeys, key)
	if f.getErr != nil {
		return nil, f.getErr
	}
	content, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(content))}, nil
}

func (f *fakeObjectAPI) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := f.pages[f.listCalls]
	f.listCalls++

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(f.listCalls < len(f.pages))}
	if f.listCalls < len(f.pages) {
		out.NextContinuationToken = aws.String("next")
	}
	for _, key := range page {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	return out, nil
}

func TestObjectSource_ReadFile(t *testing.T) {
	api := &fakeObjectAPI{objects: map[string]string{"knowledge/food.txt": "template"}}
	source := NewObjectSourceWithClient("bucket", "/knowledge/", api)

	content, err := source.ReadFile(context.Background(), "food.txt")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if string(content) != "template" {
		t.Fatalf("unexpected content: %q", content)
	}
	if api.gotKeys[0] != "knowledge/food.txt" {
		t.Fatalf("unexpected key: %s", api.gotKeys[0])
	}
}

func TestObjectSource_MissingKeyIsNotFound(t *testing.T) {
	source := NewObjectSourceWithClient("bucket", "", &fakeObjectAPI{objects: map[string]string{}})

	_, err := source.ReadFile(context.Background(), "unknown.csv")
	if !errors.Is(err, loader.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestObjectSource_OtherErrorsPropagate(t *testing.T) {
	boom := errors.New("connection reset")
	source := NewObjectSourceWithClient("bucket", "", &fakeObjectAPI{getErr: boom})

	_, err := source.ReadFile(context.Background(), "food.csv")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if errors.Is(err, loader.ErrNotFound) {
		t.Fatal("transport errors must not look like missing files")
	}
}

func TestObjectSource_ListPaginates(t *testing.T) {
	api := &fakeObjectAPI{pages: [][]string{
		{"kb/food.csv", "kb/food.txt"},
		{"kb/archive/old.txt", "kb/sights.txt"},
	}}
	source := NewObjectSourceWithClient("bucket", "kb", api)

	names, err := source.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"food.csv", "food.txt", "sights.txt"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected names: got %v want %v", names, want)
	}
	if api.listCalls != 2 {
		t.Fatalf("expected 2 list calls, got %d", api.listCalls)
	}
}
