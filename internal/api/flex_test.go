package api

import (
	"testing"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pheemnattavich-project/FloodSafe/internal/entities"
)

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "#43A047", statusColor(entities.StatusLow))
	assert.Equal(t, "#1E88E5", statusColor(entities.StatusNormal))
	assert.Equal(t, "#FB8C00", statusColor(entities.StatusHigh))
	assert.Equal(t, "#E53935", statusColor(entities.StatusOverflow))
	assert.Equal(t, "#757575", statusColor(entities.StatusUnknown))
}

func TestBuildStationFlex(t *testing.T) {
	rec := entities.StationRecord{
		StationName: "สถานีคลองโคน",
		Location:    "ต.คลองโคน อ.เมือง จ.สมุทรสงคราม",
		WaterLevel:  "1.25",
		BankLevel:   "3.10",
		Status:      entities.StatusHigh,
		Trend:       entities.TrendUp,
		UpdateTime:  "28/08/2026 07:00",
	}
	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)

	msg := buildStationFlex(rec, now)
	require.NotNil(t, msg)
	assert.Equal(t, "สถานการณ์น้ำล่าสุด", msg.AltText)

	bubble, ok := msg.Contents.(*messaging_api.FlexBubble)
	require.True(t, ok)
	require.NotNil(t, bubble.Body)

	texts := collectTexts(bubble.Body)
	assert.Contains(t, texts, "สถานีคลองโคน")
	assert.Contains(t, texts, "ต.คลองโคน อ.เมือง จ.สมุทรสงคราม")
	assert.Contains(t, texts, "1.25")
	assert.Contains(t, texts, "3.10")
	assert.Contains(t, texts, "มาก")
	assert.Contains(t, texts, "เพิ่มขึ้น")
	assert.Contains(t, texts, "วันที่ 2026-08-28 09:30")
	assert.Contains(t, texts, "อัปเดตข้อมูล: 28/08/2026 07:00")
}

func TestBuildStationFlexMissingValues(t *testing.T) {
	rec := entities.StationRecord{
		StationName: "สถานีไม่มีข้อมูล",
		Status:      entities.StatusUnknown,
		Trend:       entities.TrendUnknown,
	}

	msg := buildStationFlex(rec, time.Now())
	bubble := msg.Contents.(*messaging_api.FlexBubble)
	texts := collectTexts(bubble.Body)

	assert.Contains(t, texts, "-", "absent readings render as a dash")
	assert.Contains(t, texts, "ไม่ทราบ")
}

// collectTexts walks the component tree and gathers every FlexText value.
func collectTexts(box *messaging_api.FlexBox) []string {
	var out []string
	for _, c := range box.Contents {
		switch v := c.(type) {
		case *messaging_api.FlexText:
			out = append(out, v.Text)
		case *messaging_api.FlexBox:
			out = append(out, collectTexts(v)...)
		}
	}
	return out
}
