package domain

// KlasseRootName is the display name of the synthetic root of the
// classification tree.
const KlasseRootName = "root"

// CountEntry is a named occurrence count from the case report.
type CountEntry struct {
	Name  string `json:"name" validate:"required"`
	Count int64  `json:"count"`
}

// KlasseNode is one node of the classification (KLE) rollup tree.
// Name is the full dot-delimited code; Value is the subtree total.
type KlasseNode struct {
	Name     string        `json:"name"`
	Value    int64         `json:"value"`
	Children []*KlasseNode `json:"children"`
}

// KlasseMetadata describes the case report run.
type KlasseMetadata struct {
	TotalRecords int    `json:"totalRecords" validate:"min=0"`
	ProcessedAt  string `json:"processedAt" validate:"required"`
	SourceFile   string `json:"sourceFile" validate:"required"`
}

// KlasseReport is the artifact produced from the case classification workbook.
type KlasseReport struct {
	Metadata           KlasseMetadata `json:"metadata"`
	EjendeMyndighed    []CountEntry   `json:"ejendeMyndighed" validate:"dive"`
	MasterITSystemNavn []CountEntry   `json:"masterITSystemNavn" validate:"dive"`
	KleEmne            *KlasseNode    `json:"kleEmne" validate:"required"`
	KleEmneFlat        []CountEntry   `json:"kleEmneFlat" validate:"dive"`
	Fremdrift          []CountEntry   `json:"fremdrift" validate:"dive"`
}
