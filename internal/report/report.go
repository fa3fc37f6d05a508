// Package report 生成删除前的归档快照。
// 车辆是物理删除的，删之前把整行（含图片地址）固化成一份
// 自包含的 HTML 报告，落在可静态访问的目录里备查。
package report

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/trustedvehicles/dealerdesk/internal/common/logger"
)

// Field 报告里的一行明细。
type Field struct {
	Key   string
	Value string
}

// Image 报告里的一张图片。
type Image struct {
	Name string
	URL  string
}

// Writer 把归档报告写到本地目录。
type Writer struct {
	dir string
	log logger.Logger
}

func NewWriter(dir string, log logger.Logger) *Writer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Writer{dir: dir, log: log}
}

var whitespace = regexp.MustCompile(`\s+`)

// WriteVehicle 生成 deleted-<make>-<model>-<id>.html（空白折叠成连字符）。
// 返回落盘路径。
func (w *Writer) WriteVehicle(id, make, model, regNumber string, details []Field, images []Image) (string, error) {
	if w == nil || w.dir == "" {
		return "", fmt.Errorf("report writer not initialized")
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	var rows strings.Builder
	for _, f := range details {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(&rows, `<tr><td style="font-weight: bold; padding-right: 15px;">%s</td><td>%s</td></tr>`,
			html.EscapeString(f.Key), html.EscapeString(f.Value))
	}

	var imgs strings.Builder
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		fmt.Fprintf(&imgs, `
<div style="margin: 10px; text-align: center;">
  <p>%s</p>
  <img src="%s" alt="%s" style="max-width: 100%%; height: auto; border: 1px solid #ddd; border-radius: 4px; padding: 5px;" />
</div>`, html.EscapeString(img.Name), html.EscapeString(img.URL), html.EscapeString(img.Name))
	}

	title := html.EscapeString(strings.TrimSpace(make + " " + model))
	content := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Deleted Vehicle Report: %s</title>
<style>
  body { font-family: sans-serif; margin: 20px; }
  h1 { color: #333; }
  table { border-collapse: collapse; width: 100%%; margin-bottom: 20px; }
  td { padding: 8px; border: 1px solid #ddd; }
  .image-container { display: flex; flex-wrap: wrap; }
</style>
</head>
<body>
<h1>Deleted Vehicle Report</h1>
<h2>%s (%s)</h2>
<h3>Details</h3>
<table>%s</table>
<h3>Images</h3>
<div class="image-container">%s</div>
</body>
</html>
`, title, title, html.EscapeString(regNumber), rows.String(), imgs.String())

	name := whitespace.ReplaceAllString(fmt.Sprintf("deleted-%s-%s-%s.html", make, model, id), "-")
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	w.log.Infof("deleted vehicle report saved to %s", path)
	return path, nil
}
