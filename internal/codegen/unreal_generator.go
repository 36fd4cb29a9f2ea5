package codegen

// UnrealGenerator emits the structured DataTable JSON consumed by the
// Unreal importer.
type UnrealGenerator struct{}

func (UnrealGenerator) Name() string          { return "unreal" }
func (UnrealGenerator) FileExtension() string { return ".json" }
func (UnrealGenerator) MimeType() string      { return "application/json" }

type unrealTable struct {
	TableName string         `json:"TableName"`
	Columns   []unrealColumn `json:"Columns"`
	Rows      []Row          `json:"Rows"`
}

type unrealColumn struct {
	Name     string `json:"Name"`
	Type     string `json:"Type"`
	Required bool   `json:"Required"`
}

func (UnrealGenerator) Generate(data TableData, schema Schema) (string, error) {
	columns := make([]unrealColumn, 0, len(schema.Columns))
	for _, c := range schema.Columns {
		columns = append(columns, unrealColumn{
			Name:     c.Name,
			Type:     string(c.DataType),
			Required: c.IsRequired,
		})
	}

	rows := data.Rows
	if rows == nil {
		rows = []Row{}
	}

	return marshalIndent(unrealTable{
		TableName: titleOf(schema),
		Columns:   columns,
		Rows:      rows,
	})
}
