package export

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"
	"github.com/minasamy417/resultsboard/report"
	"golang.org/x/image/font/basicfont"
)

const (
	pngWidth   = 960
	rowHeight  = 28
	headerArea = 56
	cellPad    = 10
)

// Column x offsets, mirroring the table layout.
var columnOffsets = []float64{20, 140, 360, 540, 720, 840}

// WritePNG renders rows as a table snapshot image. fontPath may point at
// a TTF; when empty a builtin bitmap face is used (sufficient for tests
// and Latin content, not for shaped Arabic).
func WritePNG(rows []report.Row, title, fontPath string, w io.Writer) error {
	height := headerArea + rowHeight*(len(rows)+1) + 20
	dc := gg.NewContext(pngWidth, height)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if fontPath != "" {
		if err := dc.LoadFontFace(fontPath, 14); err != nil {
			return fmt.Errorf("failed to load export font: %w", err)
		}
	} else {
		dc.SetFontFace(basicfont.Face7x13)
	}

	// Title
	dc.SetRGB(0.12, 0.16, 0.22)
	dc.DrawStringAnchored(title, pngWidth/2, headerArea/2, 0.5, 0.5)

	// Header row
	headerTop := float64(headerArea)
	dc.SetRGB(0.93, 0.94, 0.96)
	dc.DrawRectangle(0, headerTop, pngWidth, rowHeight)
	dc.Fill()
	dc.SetRGB(0.25, 0.28, 0.35)
	for i, h := range columnHeaders {
		dc.DrawString(h, columnOffsets[i]+cellPad, headerTop+rowHeight-cellPad)
	}

	for i, row := range rows {
		top := headerTop + float64(i+1)*rowHeight
		if i%2 == 1 {
			dc.SetRGB(0.97, 0.97, 0.98)
			dc.DrawRectangle(0, top, pngWidth, rowHeight)
			dc.Fill()
		}

		values := []string{
			row.Code,
			row.Name,
			row.Group,
			row.Course,
			row.Score,
			fmt.Sprintf("%d%%", row.AttendancePercent),
		}
		for col, v := range values {
			switch {
			case col == 4 && row.Absent:
				dc.SetRGB(0.8, 0.2, 0.2)
			case col == 5 && row.LowAttendance:
				dc.SetRGB(0.85, 0.6, 0.1)
			default:
				dc.SetRGB(0.2, 0.2, 0.25)
			}
			dc.DrawString(v, columnOffsets[col]+cellPad, top+rowHeight-cellPad)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
