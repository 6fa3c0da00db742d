package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/future-architect/pinyintower"
)

func TestParseQuery(t *testing.T) {
	query, err := parseQuery(events.APIGatewayProxyRequest{
		Body: `{"query": "zg", "tags": ["city"]}`,
	})
	require.Nil(t, err)
	assert.Equal(t, "zg", query.Query)
	assert.Equal(t, []string{"city"}, query.Tags)

	query, err = parseQuery(events.APIGatewayProxyRequest{
		Body: `{"query": "ignored"}`,
		MultiValueQueryStringParameters: map[string][]string{
			"query": {"zhong", "guo"},
			"tag":   {"a", "b"},
		},
	})
	require.Nil(t, err)
	assert.Equal(t, "zhong guo", query.Query)
	assert.Equal(t, []string{"a", "b"}, query.Tags)

	_, err = parseQuery(events.APIGatewayProxyRequest{Body: "{"})
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	if os.Getenv("PINYINTOWER_DOCUMENT_URL") != "" {
		t.Skip("index file is not used")
	}
	ctx := context.Background()
	pt, err := pinyintower.NewPinyinTower(ctx)
	require.Nil(t, err)
	require.Nil(t, pt.PostDocuments(
		&pinyintower.Document{UniqueKey: "china", Title: "中国", Content: "中国 人民"},
		&pinyintower.Document{UniqueKey: "beijing", Title: "北京", Content: "北京"},
	))
	indexFile = filepath.Join(t.TempDir(), "test.idx")
	f, err := os.Create(indexFile)
	require.Nil(t, err)
	require.Nil(t, pt.WriteIndex(f))
	require.Nil(t, f.Close())

	res, err := Handler(ctx, events.APIGatewayProxyRequest{
		MultiValueQueryStringParameters: map[string][]string{
			"query": {"zg"},
		},
	})
	require.Nil(t, err)
	assert.Equal(t, 200, res.StatusCode)
	var result Result
	require.Nil(t, json.Unmarshal([]byte(res.Body), &result))
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "china", result.Result[0].UniqueKey)

	res, err = Handler(ctx, events.APIGatewayProxyRequest{Body: "not json"})
	require.Nil(t, err)
	assert.Equal(t, 400, res.StatusCode)
}

func TestNewTower_DocumentStore(t *testing.T) {
	t.Setenv("PINYINTOWER_DOCUMENT_URL", "mem://")
	indexFile = filepath.Join(t.TempDir(), "missing.idx")

	pt, err := newTower(context.Background())
	require.Nil(t, err)
	t.Cleanup(func() {
		assert.Nil(t, pt.Close())
	})
	_, err = pt.PostDocument("china", &pinyintower.Document{Title: "中国", Content: "中国"})
	require.Nil(t, err)
	docs, err := pt.SearchWithContext(context.Background(), "zg", nil)
	require.Nil(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "china", docs[0].UniqueKey)
}

func TestNewTower_MissingIndexFile(t *testing.T) {
	t.Setenv("PINYINTOWER_DOCUMENT_URL", "")
	indexFile = filepath.Join(t.TempDir(), "missing.idx")

	_, err := newTower(context.Background())
	assert.ErrorContains(t, err, "file open error")
}
