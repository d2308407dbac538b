package models

import (
	"bytes"
	"html/template"
)

type SpecRow struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (n *Notebook) Specification() []SpecRow {
	return []SpecRow{
		{"Diagonal", n.Diagonal},
		{"Display type", n.DisplayType},
		{"CPU frequency", n.ProcessorFreq},
		{"Ram", n.RAM},
		{"Video card", n.Video},
		{"Battery life", n.TimeWithoutCharge},
	}
}

// Specification omits the "Max sd memory" row for phones without a card slot.
func (s *Smartphone) Specification() []SpecRow {
	rows := []SpecRow{
		{"Diagonal", s.Diagonal},
		{"Display type", s.DisplayType},
		{"Screen resolution", s.Resolution},
		{"Battery capacity", s.AccumVolume},
		{"Ram", s.RAM},
		{"Presence of sd card", yesNo(s.SD)},
	}
	if s.SD {
		maxSD := ""
		if s.SDVolumeMax != nil {
			maxSD = *s.SDVolumeMax
		}
		rows = append(rows, SpecRow{"Max sd memory", maxSD})
	}
	return append(rows,
		SpecRow{"Main camera pixels", s.MainCamMP},
		SpecRow{"Frontal camera pixels", s.FrontalCamMP},
	)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

var specTable = template.Must(template.New("spec").Parse(`<table class="table">
  <tbody>
{{- range .}}
    <tr>
      <td>{{.Name}}</td>
      <td>{{.Value}}</td>
    </tr>
{{- end}}
  </tbody>
</table>
`))

// RenderSpecTable renders a product's specification as a two-column HTML table.
func RenderSpecTable(p Specified) (template.HTML, error) {
	var buf bytes.Buffer
	if err := specTable.Execute(&buf, p.Specification()); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
