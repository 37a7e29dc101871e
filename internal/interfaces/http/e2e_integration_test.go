//go:build integration
// +build integration

package http

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dreschagin/rai-dashboard/internal/infrastructure/awsclient"
	dynamodbRepo "github.com/dreschagin/rai-dashboard/internal/infrastructure/persistence/dynamodb"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/persistence/postgres"
	s3storage "github.com/dreschagin/rai-dashboard/internal/infrastructure/storage/s3"
)

type integrationEnv struct {
	postgresDSN string
	s3          awsclient.Settings
	s3Bucket    string
	dynamo      awsclient.Settings
	dynamoTable string
}

func loadIntegrationEnv() integrationEnv {
	return integrationEnv{
		postgresDSN: getenv("INTEGRATION_POSTGRES_DSN", "host=localhost port=5432 user=postgres password=postgres dbname=rai_dashboard sslmode=disable"),
		s3: awsclient.Settings{
			Region:          getenv("INTEGRATION_S3_REGION", awsclient.DefaultRegion),
			Endpoint:        getenv("INTEGRATION_S3_ENDPOINT", "http://localhost:9000"),
			AccessKeyID:     getenv("INTEGRATION_S3_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getenv("INTEGRATION_S3_SECRET_KEY", "minioadmin"),
		},
		s3Bucket: getenv("INTEGRATION_S3_BUCKET", "rai-snapshots-e2e"),
		dynamo: awsclient.Settings{
			Region:          getenv("INTEGRATION_DYNAMO_REGION", awsclient.DefaultRegion),
			Endpoint:        getenv("INTEGRATION_DYNAMO_ENDPOINT", "http://localhost:8000"),
			AccessKeyID:     getenv("INTEGRATION_DYNAMO_ACCESS_KEY", "dynamo"),
			SecretAccessKey: getenv("INTEGRATION_DYNAMO_SECRET_KEY", "dynamo"),
		},
		dynamoTable: getenv("INTEGRATION_DYNAMO_TABLE", "rai_snapshot_index_e2e"),
	}
}

func TestE2EIntegrationNavigationJournal(t *testing.T) {
	env := loadIntegrationEnv()
	ctx := context.Background()

	db, err := postgres.Open(ctx, env.postgresDSN, 5, 2, time.Minute)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := postgres.NewPostgresSectionChangeRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	cleanupSectionChanges(t, db)

	srv := newTestServer(t, func(cfg *serverConfig) {
		cfg.changes = repo
		cfg.routerOpts = append(cfg.routerOpts, WithReadyCheck("postgres", db.PingContext))
	})

	for _, section := range []string{"dashboard", "policies"} {
		if status := apiCall(t, srv, http.MethodPost, "/api/v1/navigation/select", `{"section":"`+section+`"}`, nil); status != http.StatusOK {
			t.Fatalf("select %s: expected 200, got %d", section, status)
		}
	}

	var history struct {
		Items []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"items"`
	}
	if status := apiCall(t, srv, http.MethodGet, "/api/v1/navigation/history?limit=10", "", &history); status != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", status)
	}
	if len(history.Items) != 2 {
		t.Fatalf("expected 2 persisted changes, got %d", len(history.Items))
	}
	if history.Items[0].From != "dashboard" || history.Items[0].To != "policies" {
		t.Fatalf("expected newest change first, got %+v", history.Items[0])
	}

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for readyz, got %d", resp.StatusCode)
	}
}

func TestE2EIntegrationSnapshots(t *testing.T) {
	env := loadIntegrationEnv()
	ctx := context.Background()

	ensureS3Bucket(t, ctx, env)
	ensureDynamoTable(t, ctx, env)

	storage := buildS3Storage(t, env)
	index := buildSnapshotIndex(t, env)
	srv := newTestServer(t, func(cfg *serverConfig) {
		cfg.storage = storage
		cfg.index = index
	})

	status := apiCall(t, srv, http.MethodPost, "/api/v1/snapshots/dashboard", `{"dashboard_id":"main"}`, nil)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 for snapshot save, got %d", status)
	}

	var listed struct {
		Items []struct {
			SnapshotID string `json:"snapshot_id"`
			Section    string `json:"section"`
		} `json:"items"`
	}
	status = apiCall(t, srv, http.MethodGet, "/api/v1/snapshots/dashboard?dashboard_id=main&section=overview&limit=10", "", &listed)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for snapshot list, got %d", status)
	}
	if len(listed.Items) == 0 {
		t.Fatal("expected overview snapshots from the dynamodb index")
	}
	for _, item := range listed.Items {
		if item.Section != "overview" || item.SnapshotID == "" {
			t.Fatalf("unexpected indexed item %+v", item)
		}
	}
}

func cleanupSectionChanges(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec("DELETE FROM section_changes"); err != nil {
		t.Fatalf("cleanup section changes: %v", err)
	}
}

func buildS3Storage(t *testing.T, env integrationEnv) *s3storage.SnapshotStorage {
	t.Helper()
	store, err := s3storage.NewSnapshotStorage(context.Background(), s3storage.Config{
		Bucket:          env.s3Bucket,
		Region:          env.s3.Region,
		Endpoint:        env.s3.Endpoint,
		AccessKeyID:     env.s3.AccessKeyID,
		SecretAccessKey: env.s3.SecretAccessKey,
		UsePathStyle:    true,
		URLMode:         s3storage.URLModePresigned,
		PresignedTTL:    2 * time.Minute,
	})
	if err != nil {
		t.Fatalf("init s3 storage: %v", err)
	}
	return store
}

func buildSnapshotIndex(t *testing.T, env integrationEnv) *dynamodbRepo.SnapshotIndex {
	t.Helper()
	index, err := dynamodbRepo.NewSnapshotIndex(context.Background(), dynamodbRepo.Config{
		TableName:       env.dynamoTable,
		Region:          env.dynamo.Region,
		Endpoint:        env.dynamo.Endpoint,
		AccessKeyID:     env.dynamo.AccessKeyID,
		SecretAccessKey: env.dynamo.SecretAccessKey,
		StrongReads:     true,
	})
	if err != nil {
		t.Fatalf("init dynamodb index: %v", err)
	}
	return index
}

func ensureS3Bucket(t *testing.T, ctx context.Context, env integrationEnv) {
	t.Helper()
	awsCfg, err := awsclient.LoadConfig(ctx, env.s3)
	if err != nil {
		t.Fatalf("load s3 config: %v", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = awsclient.Endpoint(env.s3.Endpoint)
		o.UsePathStyle = true
	})

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(env.s3Bucket)})
	var owned *s3.BucketAlreadyOwnedByYou
	var exists *s3.BucketAlreadyExists
	if err != nil && !errors.As(err, &owned) && !errors.As(err, &exists) {
		t.Fatalf("create bucket: %v", err)
	}
}

// snapshotIndexTable схема таблицы: основной ключ по дашборду и GSI1 по разделу
func snapshotIndexTable(name string) *dynamodb.CreateTableInput {
	keys := func(hash, rng string) []ddbtypes.KeySchemaElement {
		return []ddbtypes.KeySchemaElement{
			{AttributeName: aws.String(hash), KeyType: ddbtypes.KeyTypeHash},
			{AttributeName: aws.String(rng), KeyType: ddbtypes.KeyTypeRange},
		}
	}
	var attrs []ddbtypes.AttributeDefinition
	for _, attr := range []string{"PK", "SK", "GSI1PK", "GSI1SK"} {
		attrs = append(attrs, ddbtypes.AttributeDefinition{AttributeName: aws.String(attr), AttributeType: ddbtypes.ScalarAttributeTypeS})
	}

	return &dynamodb.CreateTableInput{
		TableName:            aws.String(name),
		AttributeDefinitions: attrs,
		KeySchema:            keys("PK", "SK"),
		BillingMode:          ddbtypes.BillingModePayPerRequest,
		GlobalSecondaryIndexes: []ddbtypes.GlobalSecondaryIndex{{
			IndexName:  aws.String("GSI1"),
			KeySchema:  keys("GSI1PK", "GSI1SK"),
			Projection: &ddbtypes.Projection{ProjectionType: ddbtypes.ProjectionTypeAll},
		}},
	}
}

func ensureDynamoTable(t *testing.T, ctx context.Context, env integrationEnv) {
	t.Helper()
	awsCfg, err := awsclient.LoadConfig(ctx, env.dynamo)
	if err != nil {
		t.Fatalf("load dynamo config: %v", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = awsclient.Endpoint(env.dynamo.Endpoint)
	})

	describe := &dynamodb.DescribeTableInput{TableName: aws.String(env.dynamoTable)}
	if _, err := client.DescribeTable(ctx, describe); err == nil {
		return
	}
	if _, err := client.CreateTable(ctx, snapshotIndexTable(env.dynamoTable)); err != nil {
		t.Fatalf("create dynamodb table: %v", err)
	}
	if err := dynamodb.NewTableExistsWaiter(client).Wait(ctx, describe, 30*time.Second); err != nil {
		t.Fatalf("wait for table: %v", err)
	}
}

func getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
