package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dreschagin/rai-dashboard/internal/application/port"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/awsclient"
)

const (
	defaultListLimit  = 24
	maxListLimit      = 100
	maxBatchWriteSize = 25
	maxBatchAttempts  = 5

	sectionIndex = "GSI1"

	attrPK          = "PK"
	attrSK          = "SK"
	attrGSI1PK      = "GSI1PK"
	attrGSI1SK      = "GSI1SK"
	attrSnapshotID  = "snapshot_id"
	attrDashboardID = "dashboard_id"
	attrSection     = "section"
	attrS3Key       = "s3_key"
	attrURL         = "url"
	attrContentType = "content_type"
	attrSizeBytes   = "size_bytes"
	attrCapturedAt  = "captured_at"
	attrCreatedAt   = "created_at"
	attrExpiresAt   = "expires_at"
)

var (
	dashboardIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

	errUnprocessedItems = errors.New("dynamodb batch write has unprocessed items")
)

// dynamoAPI подмножество клиента DynamoDB, используемое индексом
type dynamoAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type Config struct {
	TableName       string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	StrongReads     bool
}

// SnapshotIndex реализует port.SnapshotMetadataRepository в DynamoDB
type SnapshotIndex struct {
	client      dynamoAPI
	tableName   string
	strongReads bool
	retryDelay  time.Duration
}

var _ port.SnapshotMetadataRepository = (*SnapshotIndex)(nil)

func NewSnapshotIndex(ctx context.Context, cfg Config) (*SnapshotIndex, error) {
	tableName := strings.TrimSpace(cfg.TableName)
	if tableName == "" {
		return nil, fmt.Errorf("dynamodb table name is required")
	}

	awsCfg, err := awsclient.LoadConfig(ctx, awsclient.Settings{
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config for dynamodb: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(options *dynamodb.Options) {
		options.BaseEndpoint = awsclient.Endpoint(cfg.Endpoint)
	})

	return newSnapshotIndex(client, tableName, cfg.StrongReads), nil
}

func newSnapshotIndex(client dynamoAPI, tableName string, strongReads bool) *SnapshotIndex {
	return &SnapshotIndex{
		client:      client,
		tableName:   tableName,
		strongReads: strongReads,
		retryDelay:  100 * time.Millisecond,
	}
}

// PutBatch записывает метаданные пачками по 25, дописывая необработанные элементы
func (r *SnapshotIndex) PutBatch(ctx context.Context, records []port.SnapshotMetadata) error {
	for start := 0; start < len(records); start += maxBatchWriteSize {
		end := min(start+maxBatchWriteSize, len(records))

		requests := make([]types.WriteRequest, 0, end-start)
		for _, record := range records[start:end] {
			item, err := toItem(record)
			if err != nil {
				return err
			}
			requests = append(requests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := r.writeBatch(ctx, requests); err != nil {
			return err
		}
	}

	return nil
}

func (r *SnapshotIndex) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{r.tableName: requests}

	return retry.New(
		retry.Context(ctx),
		retry.Attempts(maxBatchAttempts),
		retry.Delay(r.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errUnprocessedItems)
		}),
	).Do(func() error {
		output, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return fmt.Errorf("dynamodb batch write failed: %w", err)
		}
		if len(output.UnprocessedItems) > 0 {
			pending = output.UnprocessedItems
			return errUnprocessedItems
		}
		return nil
	})
}

// ListByDashboard возвращает страницу снимков, новые первыми.
// С фильтром по разделу запрос идет в GSI1.
func (r *SnapshotIndex) ListByDashboard(ctx context.Context, query port.SnapshotListQuery) (port.SnapshotListPage, error) {
	dashboardID := strings.TrimSpace(query.DashboardID)
	if !dashboardIDPattern.MatchString(dashboardID) {
		return port.SnapshotListPage{}, fmt.Errorf("invalid dashboard_id")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	fromMS, toMS, hasRange, err := timeWindow(query.From, query.To)
	if err != nil {
		return port.SnapshotListPage{}, err
	}

	section := strings.TrimSpace(query.Section)
	input := r.buildQuery(dashboardID, section, limit, fromMS, toMS, hasRange)

	filters := pageCursor{DashboardID: dashboardID, Section: section, FromMS: fromMS, ToMS: toMS}
	if cursor := strings.TrimSpace(query.Cursor); cursor != "" {
		startKey, err := decodeCursor(cursor, filters)
		if err != nil {
			return port.SnapshotListPage{}, err
		}
		input.ExclusiveStartKey = startKey
	}

	output, err := r.client.Query(ctx, input)
	if err != nil {
		return port.SnapshotListPage{}, fmt.Errorf("dynamodb query failed: %w", err)
	}

	items := make([]port.SnapshotMetadata, 0, len(output.Items))
	for _, raw := range output.Items {
		item, err := fromItem(raw)
		if err != nil {
			return port.SnapshotListPage{}, err
		}
		items = append(items, item)
	}

	page := port.SnapshotListPage{Items: items}
	if len(output.LastEvaluatedKey) > 0 {
		page.NextCursor, err = encodeCursor(filters, output.LastEvaluatedKey)
		if err != nil {
			return port.SnapshotListPage{}, err
		}
	}
	return page, nil
}

func (r *SnapshotIndex) buildQuery(dashboardID, section string, limit int, fromMS, toMS int64, hasRange bool) *dynamodb.QueryInput {
	pkAttr, skAttr, pk := attrPK, attrSK, buildPK(dashboardID)
	if section != "" {
		pkAttr, skAttr, pk = attrGSI1PK, attrGSI1SK, buildGSI1PK(dashboardID, section)
	}

	input := &dynamodb.QueryInput{
		TableName:        aws.String(r.tableName),
		Limit:            aws.Int32(int32(limit)),
		ScanIndexForward: aws.Bool(false),
		ExpressionAttributeNames: map[string]string{
			"#pk": pkAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
		},
	}

	keyCondition := "#pk = :pk"
	if hasRange {
		lower, upper := sortBounds(fromMS, toMS)
		input.ExpressionAttributeNames["#sk"] = skAttr
		input.ExpressionAttributeValues[":from"] = &types.AttributeValueMemberS{Value: lower}
		input.ExpressionAttributeValues[":to"] = &types.AttributeValueMemberS{Value: upper}
		keyCondition += " AND #sk BETWEEN :from AND :to"
	}
	input.KeyConditionExpression = aws.String(keyCondition)

	// GSI не поддерживает строгое чтение
	if section != "" {
		input.IndexName = aws.String(sectionIndex)
	} else {
		input.ConsistentRead = aws.Bool(r.strongReads)
	}
	return input
}

func toItem(record port.SnapshotMetadata) (map[string]types.AttributeValue, error) {
	dashboardID := strings.TrimSpace(record.DashboardID)
	section := strings.TrimSpace(record.Section)
	s3Key := strings.TrimSpace(record.S3Key)
	snapshotID := strings.TrimSpace(record.SnapshotID)
	switch {
	case !dashboardIDPattern.MatchString(dashboardID):
		return nil, fmt.Errorf("invalid dashboard_id")
	case section == "":
		return nil, fmt.Errorf("section is required")
	case s3Key == "":
		return nil, fmt.Errorf("s3_key is required")
	case snapshotID == "":
		return nil, fmt.Errorf("snapshot_id is required")
	}

	capturedAt := record.CapturedAt.UTC()
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}
	lastModified := record.LastModified.UTC()
	if lastModified.IsZero() {
		lastModified = capturedAt
	}
	capturedAtMS := capturedAt.UnixMilli()

	item := map[string]types.AttributeValue{
		attrPK:          &types.AttributeValueMemberS{Value: buildPK(dashboardID)},
		attrSK:          &types.AttributeValueMemberS{Value: buildSK(capturedAtMS, section, snapshotID)},
		attrGSI1PK:      &types.AttributeValueMemberS{Value: buildGSI1PK(dashboardID, section)},
		attrGSI1SK:      &types.AttributeValueMemberS{Value: buildGSI1SK(capturedAtMS, snapshotID)},
		attrSnapshotID:  &types.AttributeValueMemberS{Value: snapshotID},
		attrDashboardID: &types.AttributeValueMemberS{Value: dashboardID},
		attrSection:     &types.AttributeValueMemberS{Value: section},
		attrS3Key:       &types.AttributeValueMemberS{Value: s3Key},
		attrCapturedAt:  numberAttr(capturedAtMS),
		attrCreatedAt:   numberAttr(lastModified.UnixMilli()),
	}

	if url := strings.TrimSpace(record.URL); url != "" {
		item[attrURL] = &types.AttributeValueMemberS{Value: url}
	}
	if contentType := strings.TrimSpace(record.ContentType); contentType != "" {
		item[attrContentType] = &types.AttributeValueMemberS{Value: contentType}
	}
	if record.SizeBytes > 0 {
		item[attrSizeBytes] = numberAttr(record.SizeBytes)
	}
	// expires_at в секундах: формат TTL DynamoDB
	if !record.ExpiresAt.IsZero() {
		item[attrExpiresAt] = numberAttr(record.ExpiresAt.UTC().Unix())
	}

	return item, nil
}

func fromItem(item map[string]types.AttributeValue) (port.SnapshotMetadata, error) {
	var (
		record port.SnapshotMetadata
		err    error
	)
	for name, dest := range map[string]*string{
		attrDashboardID: &record.DashboardID,
		attrSection:     &record.Section,
		attrS3Key:       &record.S3Key,
		attrSnapshotID:  &record.SnapshotID,
	} {
		if *dest, err = requiredString(item, name); err != nil {
			return port.SnapshotMetadata{}, err
		}
	}

	capturedAtMS, err := requiredInt64(item, attrCapturedAt)
	if err != nil {
		return port.SnapshotMetadata{}, err
	}
	createdAtMS, err := requiredInt64(item, attrCreatedAt)
	if err != nil {
		return port.SnapshotMetadata{}, err
	}

	record.URL = optionalString(item, attrURL)
	record.ContentType = optionalString(item, attrContentType)
	record.SizeBytes = optionalInt64(item, attrSizeBytes)
	record.CapturedAt = time.UnixMilli(capturedAtMS).UTC()
	record.LastModified = time.UnixMilli(createdAtMS).UTC()
	if expires := optionalInt64(item, attrExpiresAt); expires > 0 {
		record.ExpiresAt = time.Unix(expires, 0).UTC()
	}

	return record, nil
}

func numberAttr(v int64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}

func requiredString(item map[string]types.AttributeValue, name string) (string, error) {
	value, ok := item[name].(*types.AttributeValueMemberS)
	if !ok || strings.TrimSpace(value.Value) == "" {
		return "", fmt.Errorf("missing or invalid attribute %s", name)
	}
	return value.Value, nil
}

func optionalString(item map[string]types.AttributeValue, name string) string {
	if value, ok := item[name].(*types.AttributeValueMemberS); ok {
		return value.Value
	}
	return ""
}

func requiredInt64(item map[string]types.AttributeValue, name string) (int64, error) {
	value, ok := item[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("missing or invalid attribute %s", name)
	}
	parsed, err := strconv.ParseInt(value.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid attribute %s: %w", name, err)
	}
	return parsed, nil
}

func optionalInt64(item map[string]types.AttributeValue, name string) int64 {
	parsed, err := requiredInt64(item, name)
	if err != nil {
		return 0
	}
	return parsed
}
