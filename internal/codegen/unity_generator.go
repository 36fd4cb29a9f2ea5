package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"game-data-hub/internal/datatype"
)

// UnityGenerator emits a C# ScriptableObject per table plus a database asset
// with an id lookup.
type UnityGenerator struct{}

func (UnityGenerator) Name() string          { return "unity" }
func (UnityGenerator) FileExtension() string { return ".cs" }
func (UnityGenerator) MimeType() string      { return "text/x-csharp" }

const unityTemplate = `using System;
using UnityEngine;
{{range .Enums}}
public enum {{.Name}}
{
{{- range .Members}}
    {{.}},
{{- end}}
}
{{end}}
[CreateAssetMenu(fileName = "{{.ClassName}}", menuName = "Game Data/{{csString .TableName}}")]
public class {{.ClassName}}Data : ScriptableObject
{
{{- if not .HasID}}
    public int id;
{{- end}}
{{- range .Fields}}
    public {{.Type}} {{.Name}};{{with .Comment}} // {{.}}{{end}}
{{- end}}
}

[Serializable]
public class {{.ClassName}}Database : ScriptableObject
{
    public {{.ClassName}}Data[] items;

    public {{.ClassName}}Data GetById(int id)
    {
        foreach (var item in items)
        {
            if (item.id == id) return item;
        }
        return null;
    }
}
`

var unityTmpl = template.Must(template.New("unity").Funcs(template.FuncMap{
	"csString": csharpString,
}).Parse(unityTemplate))

type unityView struct {
	TableName string
	ClassName string
	HasID     bool
	Enums     []unityEnum
	Fields    []unityField
}

type unityEnum struct {
	Name    string
	Members []string
}

type unityField struct {
	Type    string
	Name    string
	Comment string
}

func (UnityGenerator) Generate(_ TableData, schema Schema) (string, error) {
	view := unityView{
		TableName: titleOf(schema),
		ClassName: pascalIdentifier(schema.Name, "Table"),
	}

	fields := uniqueNames{}
	types := uniqueNames{view.ClassName + "Data": 1, view.ClassName + "Database": 1}

	for _, c := range schema.Columns {
		field := unityField{Name: csharpIdentifier(c.Name)}
		field.Type, field.Comment = csharpType(c.DataType)

		if c.DataType == datatype.TypeEnum && len(c.EnumValues) > 0 {
			enum := unityEnum{Name: types.claim(view.ClassName + pascalIdentifier(c.Name, "Value"))}
			members := uniqueNames{}
			for _, v := range c.EnumValues {
				enum.Members = append(enum.Members, members.claim(csharpIdentifier(v)))
			}
			view.Enums = append(view.Enums, enum)
			field.Type = enum.Name
		}
		if c.DataType == datatype.TypeReference && c.ReferenceTableID != nil {
			field.Comment = fmt.Sprintf("row id in table %d", *c.ReferenceTableID)
		}

		if field.Name == "id" {
			if field.Type == "int" {
				view.HasID = true
			} else {
				field.Name = "id_"
			}
		}
		field.Name = fields.claim(field.Name)
		view.Fields = append(view.Fields, field)
	}

	var buf bytes.Buffer
	if err := unityTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

func csharpType(t datatype.DataType) (string, string) {
	switch t {
	case datatype.TypeInteger:
		return "int", ""
	case datatype.TypeFloat:
		return "float", ""
	case datatype.TypeBoolean:
		return "bool", ""
	case datatype.TypeReference:
		return "int", "row id"
	default:
		return "string", ""
	}
}
