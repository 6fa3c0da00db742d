package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	_ "gocloud.dev/docstore/awsdynamodb"
	_ "gocloud.dev/docstore/gcpfirestore"
	_ "gocloud.dev/docstore/memdocstore"
	_ "gocloud.dev/docstore/mongodocstore"

	"github.com/future-architect/pinyintower"
)

type Query struct {
	Query string   `json:"query"`
	Tags  []string `json:"tags"`
}

type Result struct {
	Error  string                  `json:"error,omitempty"`
	Count  int                     `json:"count"`
	Result []*pinyintower.Document `json:"result,omitempty"`
}

func jsonResponse(status int, result *Result) events.APIGatewayProxyResponse {
	b, _ := json.Marshal(result)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}

func errorResult(status int, err string) events.APIGatewayProxyResponse {
	return jsonResponse(status, &Result{
		Error: err,
	})
}

var (
	indexFile string

	openOnce sync.Once
	tower    *pinyintower.PinyinTower
	openErr  error
)

func init() {
	indexFile = os.Getenv("PINYINTOWER_INDEX_FILE")
	if indexFile == "" {
		indexFile = "pinyintower.idx"
	}
}

// openIndex opens the index once per container.
func openIndex() (*pinyintower.PinyinTower, error) {
	openOnce.Do(func() {
		tower, openErr = newTower(context.Background())
	})
	return tower, openErr
}

// newTower connects to PINYINTOWER_DOCUMENT_URL when it is set and loads the
// index file otherwise.
func newTower(ctx context.Context) (*pinyintower.PinyinTower, error) {
	pt, err := pinyintower.NewPinyinTower(ctx)
	if err != nil {
		return nil, err
	}
	if os.Getenv("PINYINTOWER_DOCUMENT_URL") != "" {
		return pt, nil
	}
	f, err := os.Open(indexFile)
	if err != nil {
		return nil, fmt.Errorf("file open error: %w", err)
	}
	defer f.Close()
	if err := pt.ReadIndex(f); err != nil {
		return nil, fmt.Errorf("parse index file error: %w", err)
	}
	return pt, nil
}

func parseQuery(request events.APIGatewayProxyRequest) (Query, error) {
	var query Query
	if strings.TrimSpace(request.Body) != "" {
		if err := json.Unmarshal([]byte(request.Body), &query); err != nil {
			return query, err
		}
	}
	for key, values := range request.MultiValueQueryStringParameters {
		switch key {
		case "query":
			query.Query = strings.Join(values, " ")
		case "tag":
			query.Tags = values
		}
	}
	return query, nil
}

func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	query, err := parseQuery(request)
	if err != nil {
		return errorResult(400, fmt.Sprintf("invalid request body: %v", err)), nil
	}
	pt, err := openIndex()
	if err != nil {
		slog.Error("open index", "file", indexFile, "error", err)
		return errorResult(500, err.Error()), nil
	}
	docs, err := pt.SearchWithContext(ctx, query.Query, query.Tags)
	if err != nil {
		slog.Error("search", "query", query.Query, "error", err)
		return errorResult(500, fmt.Sprintf("search error: %v", err)), nil
	}
	return jsonResponse(200, &Result{
		Count:  len(docs),
		Result: docs,
	}), nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	lambda.Start(Handler)
}
