package dynamodb

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Ключи таблицы:
//   PK     DASHBOARD#<dashboard>
//   SK     TS#<captured ms, 13 digits>#SECTION#<section>#SNAP#<snapshot id>
//   GSI1PK DASHBOARD#<dashboard>#SECTION#<section>
//   GSI1SK TS#<captured ms>#SNAP#<snapshot id>

func buildPK(dashboardID string) string {
	return "DASHBOARD#" + dashboardID
}

func buildSK(capturedAtMS int64, section, snapshotID string) string {
	return fmt.Sprintf("TS#%013d#SECTION#%s#SNAP#%s", capturedAtMS, section, snapshotID)
}

func buildGSI1PK(dashboardID, section string) string {
	return fmt.Sprintf("DASHBOARD#%s#SECTION#%s", dashboardID, section)
}

func buildGSI1SK(capturedAtMS int64, snapshotID string) string {
	return fmt.Sprintf("TS#%013d#SNAP#%s", capturedAtMS, snapshotID)
}

// sortBounds возвращает границы BETWEEN для диапазона времени, общие для SK и GSI1SK
func sortBounds(fromMS, toMS int64) (string, string) {
	return fmt.Sprintf("TS#%013d#", fromMS), fmt.Sprintf("TS#%013d#~", toMS)
}

// timeWindow переводит диапазон в миллисекунды. hasRange=false, если обе границы открыты.
func timeWindow(from, to time.Time) (fromMS, toMS int64, hasRange bool, err error) {
	if from.IsZero() && to.IsZero() {
		return 0, math.MaxInt64, false, nil
	}

	fromMS, toMS = 0, math.MaxInt64
	if !from.IsZero() {
		fromMS = from.UTC().UnixMilli()
	}
	if !to.IsZero() {
		toMS = to.UTC().UnixMilli()
	}
	if fromMS > toMS {
		return 0, 0, false, fmt.Errorf("from must be less than or equal to to")
	}
	return fromMS, toMS, true, nil
}

// pageCursor непрозрачный курсор пагинации. Привязан к фильтрам запроса.
type pageCursor struct {
	DashboardID string                  `json:"d"`
	Section     string                  `json:"s,omitempty"`
	FromMS      int64                   `json:"f,omitempty"`
	ToMS        int64                   `json:"t,omitempty"`
	Key         map[string]cursorScalar `json:"k"`
}

type cursorScalar struct {
	S string `json:"s,omitempty"`
	N string `json:"n,omitempty"`
}

func (c pageCursor) sameQuery(other pageCursor) bool {
	return c.DashboardID == other.DashboardID &&
		c.Section == other.Section &&
		c.FromMS == other.FromMS &&
		c.ToMS == other.ToMS
}

func encodeCursor(filters pageCursor, key map[string]types.AttributeValue) (string, error) {
	filters.Key = make(map[string]cursorScalar, len(key))
	for name, raw := range key {
		switch v := raw.(type) {
		case *types.AttributeValueMemberS:
			filters.Key[name] = cursorScalar{S: v.Value}
		case *types.AttributeValueMemberN:
			filters.Key[name] = cursorScalar{N: v.Value}
		default:
			return "", fmt.Errorf("unsupported cursor attribute type for %s", name)
		}
	}

	data, err := json.Marshal(filters)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeCursor(raw string, filters pageCursor) (map[string]types.AttributeValue, error) {
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor")
	}

	var decoded pageCursor
	if err := json.Unmarshal(data, &decoded); err != nil || len(decoded.Key) == 0 {
		return nil, fmt.Errorf("invalid cursor")
	}
	if !decoded.sameQuery(filters) {
		return nil, fmt.Errorf("cursor does not match query filters")
	}

	key := make(map[string]types.AttributeValue, len(decoded.Key))
	for name, v := range decoded.Key {
		switch {
		case v.S != "":
			key[name] = &types.AttributeValueMemberS{Value: v.S}
		case v.N != "":
			key[name] = &types.AttributeValueMemberN{Value: v.N}
		default:
			return nil, fmt.Errorf("invalid cursor")
		}
	}
	return key, nil
}
