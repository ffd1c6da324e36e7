package codegen

import (
	"fmt"
	"text/template"

	"github.com/ardnew/usbid/pkg/usbid"
)

var funcMap = template.FuncMap{
	"hex2":  func(v uint8) string { return fmt.Sprintf("0x%02x", v) },
	"hex3":  func(v uint16) string { return fmt.Sprintf("0x%03x", v) },
	"hex4":  func(v uint16) string { return fmt.Sprintf("0x%04x", v) },
	"hex1":  func(v uint8) string { return fmt.Sprintf("0x%x", v) },
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
	"args": func(field string, records any) fieldArgs {
		return fieldArgs{Field: field, Records: records}
	},
}

var templates = template.Must(template.New("").Funcs(funcMap).Parse(
	fileTmpl +
		recordsTmpl,
))

// fileData is the root template input.
type fileData struct {
	Package string
	Var     string
	Func    string
	Import  string
	Source  string
	Snap    *usbid.Snapshot
}

const fileTmpl = `
{{- define "file" -}}
// Code generated by usbid compile; DO NOT EDIT.
{{- if .Source}}
// Source: {{.Source}}
{{- end}}

package {{.Package}}

import (
	"sync"

	"{{.Import}}"
)

// {{.Func}} returns the database compiled into this package. The snapshot is
// decoded on first use.
var {{.Func}} = sync.OnceValues(func() (*usbid.Database, error) {
	return usbid.FromSnapshot({{.Var}})
})

var {{.Var}} = &usbid.Snapshot{
	Version: {{.Snap.Version}},
{{- with .Snap.Vendors}}
	Vendors: []usbid.VendorRecord{
{{- range .}}
		{ID: {{hex4 .ID}}, Name: {{quote .Name}}{{if .Devices}}, Devices: []usbid.ParentRecord[uint16, uint8]{
{{- range .Devices}}
			{ID: {{hex4 .ID}}, Name: {{quote .Name}}{{if .Children}}, Children: []usbid.Record[uint8]{
{{- range .Children}}
				{ID: {{hex2 .ID}}, Name: {{quote .Name}}},
{{- end}}
			}{{end}}},
{{- end}}
		}{{end}}},
{{- end}}
	},
{{- end}}
{{- with .Snap.Classes}}
	Classes: []usbid.ClassRecord{
{{- range .}}
		{ID: {{hex2 .ID}}, Name: {{quote .Name}}{{if .SubClasses}}, SubClasses: []usbid.ParentRecord[uint8, uint8]{
{{- range .SubClasses}}
			{ID: {{hex2 .ID}}, Name: {{quote .Name}}{{if .Children}}, Children: []usbid.Record[uint8]{
{{- range .Children}}
				{ID: {{hex2 .ID}}, Name: {{quote .Name}}},
{{- end}}
			}{{end}}},
{{- end}}
		}{{end}}},
{{- end}}
	},
{{- end}}
{{- template "records16" (args "AudioTerminals" .Snap.AudioTerminals)}}
{{- template "records8" (args "HIDs" .Snap.HIDs)}}
{{- template "records8" (args "HIDItemTypes" .Snap.HIDItemTypes)}}
{{- with .Snap.Biases}}
	Biases: []usbid.Record[uint8]{
{{- range .}}
		{ID: {{hex1 .ID}}, Name: {{quote .Name}}},
{{- end}}
	},
{{- end}}
{{- template "records8" (args "Phys" .Snap.Phys)}}
{{- with .Snap.HIDUsagePages}}
	HIDUsagePages: []usbid.ParentRecord[uint8, uint16]{
{{- range .}}
		{ID: {{hex2 .ID}}, Name: {{quote .Name}}{{if .Children}}, Children: []usbid.Record[uint16]{
{{- range .Children}}
			{ID: {{hex3 .ID}}, Name: {{quote .Name}}},
{{- end}}
		}{{end}}},
{{- end}}
	},
{{- end}}
{{- with .Snap.Languages}}
	Languages: []usbid.ParentRecord[uint16, uint8]{
{{- range .}}
		{ID: {{hex4 .ID}}, Name: {{quote .Name}}{{if .Children}}, Children: []usbid.Record[uint8]{
{{- range .Children}}
			{ID: {{hex2 .ID}}, Name: {{quote .Name}}},
{{- end}}
		}{{end}}},
{{- end}}
	},
{{- end}}
{{- template "records8" (args "HIDCountryCodes" .Snap.HIDCountryCodes)}}
{{- template "records16" (args "VideoTerminals" .Snap.VideoTerminals)}}
}
{{end}}
`

const recordsTmpl = `
{{- define "records8"}}
{{- if .Records}}
	{{.Field}}: []usbid.Record[uint8]{
{{- range .Records}}
		{ID: {{hex2 .ID}}, Name: {{quote .Name}}},
{{- end}}
	},
{{- end}}
{{- end}}

{{- define "records16"}}
{{- if .Records}}
	{{.Field}}: []usbid.Record[uint16]{
{{- range .Records}}
		{ID: {{hex4 .ID}}, Name: {{quote .Name}}},
{{- end}}
	},
{{- end}}
{{- end}}
`

// fieldArgs names a Snapshot field and its records for the records templates.
type fieldArgs struct {
	Field   string
	Records any
}
