package markdown

// LinkKind classifies where a destination was found.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

// Link is a destination found in a document. Line is 1-based.
type Link struct {
	Kind        LinkKind
	Destination string
	Line        int
}
