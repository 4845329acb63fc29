package export

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/minasamy417/resultsboard/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []report.Row {
	return []report.Row{
		{Code: "1", Name: "مينا مجدي", Group: "إعدادي", Course: "عقيدة", Score: "92.5", AttendancePercent: 92},
		{Code: "2", Name: "سارة عادل", Group: "ثانوي", Course: "طقس", Score: report.AbsentMark, AttendancePercent: 40, Absent: true, LowAttendance: true},
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(sampleRows(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Details", "A1")
	require.NoError(t, err)
	assert.Equal(t, "الكود", header)

	name, err := f.GetCellValue("Details", "B2")
	require.NoError(t, err)
	assert.Equal(t, "مينا مجدي", name)

	score, err := f.GetCellValue("Details", "E3")
	require.NoError(t, err)
	assert.Equal(t, report.AbsentMark, score)

	attendance, err := f.GetCellValue("Details", "F3")
	require.NoError(t, err)
	assert.Equal(t, "40%", attendance)
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(nil, &buf))
	assert.NotZero(t, buf.Len())
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(sampleRows(), "تقرير", "", &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, pngWidth, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), headerArea)
}

func TestWritePNGMissingFont(t *testing.T) {
	var buf bytes.Buffer
	err := WritePNG(sampleRows(), "t", "/nonexistent/font.ttf", &buf)
	assert.Error(t, err)
}
