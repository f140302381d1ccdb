package api

import (
	"fmt"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/pheemnattavich-project/FloodSafe/internal/entities"
)

// statusColor picks the accent color for the status line of the card.
func statusColor(s entities.Status) string {
	switch s {
	case entities.StatusLow:
		return "#43A047"
	case entities.StatusNormal:
		return "#1E88E5"
	case entities.StatusHigh:
		return "#FB8C00"
	case entities.StatusOverflow:
		return "#E53935"
	default:
		return "#757575"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// buildStationFlex renders one station record as the reply bubble.
func buildStationFlex(rec entities.StationRecord, now time.Time) *messaging_api.FlexMessage {
	detailRow := func(label, value, color string) messaging_api.FlexComponentInterface {
		return &messaging_api.FlexBox{
			Layout: "horizontal",
			Margin: "sm",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: label, Size: "sm", Color: "#555555", Flex: 5},
				&messaging_api.FlexText{Text: orDash(value), Size: "sm", Weight: "bold", Color: color, Flex: 4, Align: "end"},
			},
		}
	}

	bubble := &messaging_api.FlexBubble{
		Size: "kilo",
		Body: &messaging_api.FlexBox{
			Layout:  "vertical",
			Spacing: "sm",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{Text: "สถานการณ์น้ำล่าสุด", Weight: "bold", Color: "#2E7D32", Size: "sm"},
				&messaging_api.FlexText{Text: fmt.Sprintf("วันที่ %s", now.Format("2006-01-02 15:04")), Size: "xs", Color: "#9E9E9E"},
				&messaging_api.FlexSeparator{Margin: "md"},
				&messaging_api.FlexText{Text: orDash(rec.StationName), Weight: "bold", Size: "lg", Wrap: true, Margin: "md"},
				&messaging_api.FlexText{Text: orDash(rec.Location), Size: "sm", Color: "#616161", Wrap: true},
				&messaging_api.FlexSeparator{Margin: "md"},
				detailRow("ระดับน้ำ (ม.)", rec.WaterLevel, "#111111"),
				detailRow("ระดับตลิ่ง (ม.)", rec.BankLevel, "#111111"),
				detailRow("สถานะน้ำ", rec.Status.ThaiLabel(), statusColor(rec.Status)),
				detailRow("แนวโน้ม", rec.Trend.ThaiLabel(), "#111111"),
				&messaging_api.FlexText{
					Text:   fmt.Sprintf("อัปเดตข้อมูล: %s", orDash(rec.UpdateTime)),
					Size:   "xs",
					Color:  "#9E9E9E",
					Margin: "md",
					Wrap:   true,
				},
			},
		},
	}

	return &messaging_api.FlexMessage{
		AltText:  "สถานการณ์น้ำล่าสุด",
		Contents: bubble,
	}
}
