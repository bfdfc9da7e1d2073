package transition

import (
	"github.com/iotaledger/hive.go/stringify"
)

// InputType distinguishes the five mutually-exclusive input variants.
type InputType byte

const (
	InputConstant InputType = iota
	InputPublic
	InputPrivate
	InputRecord
	InputExternalRecord
)

// Input is one value consumed by a state transition.
type Input interface {
	// Type returns the variant of the input.
	Type() InputType

	// ID returns the globally unique identifier of the input. For record
	// inputs this is the serial number.
	ID() Field
}

// Inputs is the ordered input set of one transition.
type Inputs []Input

// IDs returns the input IDs in the order the inputs appear.
func (i Inputs) IDs() Fields {
	ids := make(Fields, 0, len(i))
	for _, input := range i {
		ids = append(ids, input.ID())
	}

	return ids
}

// ConstantInput is a circuit constant consumed by a transition.
type ConstantInput struct {
	id        Field
	plaintext Plaintext
}

// NewConstantInput creates a constant input. A nil plaintext marks the
// content as pruned.
func NewConstantInput(id Field, plaintext Plaintext) *ConstantInput {
	return &ConstantInput{id: id, plaintext: plaintext}
}

func (c *ConstantInput) Type() InputType {
	return InputConstant
}

func (c *ConstantInput) ID() Field {
	return c.id
}

// Plaintext returns the content and whether it is still stored.
func (c *ConstantInput) Plaintext() (Plaintext, bool) {
	return c.plaintext, c.plaintext != nil
}

func (c *ConstantInput) String() string {
	return stringify.Struct("ConstantInput",
		stringify.NewStructField("ID", c.id),
		stringify.NewStructField("Pruned", c.plaintext == nil),
	)
}

// PublicInput is a publicly visible input consumed by a transition.
type PublicInput struct {
	id        Field
	plaintext Plaintext
}

// NewPublicInput creates a public input. A nil plaintext marks the content
// as pruned.
func NewPublicInput(id Field, plaintext Plaintext) *PublicInput {
	return &PublicInput{id: id, plaintext: plaintext}
}

func (p *PublicInput) Type() InputType {
	return InputPublic
}

func (p *PublicInput) ID() Field {
	return p.id
}

// Plaintext returns the content and whether it is still stored.
func (p *PublicInput) Plaintext() (Plaintext, bool) {
	return p.plaintext, p.plaintext != nil
}

func (p *PublicInput) String() string {
	return stringify.Struct("PublicInput",
		stringify.NewStructField("ID", p.id),
		stringify.NewStructField("Pruned", p.plaintext == nil),
	)
}

// PrivateInput is an encrypted input consumed by a transition.
type PrivateInput struct {
	id         Field
	ciphertext Ciphertext
}

// NewPrivateInput creates a private input. A nil ciphertext marks the
// content as pruned.
func NewPrivateInput(id Field, ciphertext Ciphertext) *PrivateInput {
	return &PrivateInput{id: id, ciphertext: ciphertext}
}

func (p *PrivateInput) Type() InputType {
	return InputPrivate
}

func (p *PrivateInput) ID() Field {
	return p.id
}

// Ciphertext returns the content and whether it is still stored.
func (p *PrivateInput) Ciphertext() (Ciphertext, bool) {
	return p.ciphertext, p.ciphertext != nil
}

func (p *PrivateInput) String() string {
	return stringify.Struct("PrivateInput",
		stringify.NewStructField("ID", p.id),
		stringify.NewStructField("Pruned", p.ciphertext == nil),
	)
}

// RecordInput is a consumed record, identified by its serial number. The tag
// is a blinded one-to-one alias of the serial number used for double-spend
// checks; the origin references where the record came from.
type RecordInput struct {
	serialNumber Field
	tag          Field
	origin       Origin
}

func NewRecordInput(serialNumber Field, tag Field, origin Origin) *RecordInput {
	return &RecordInput{serialNumber: serialNumber, tag: tag, origin: origin}
}

func (r *RecordInput) Type() InputType {
	return InputRecord
}

// ID returns the serial number of the consumed record.
func (r *RecordInput) ID() Field {
	return r.serialNumber
}

func (r *RecordInput) SerialNumber() Field {
	return r.serialNumber
}

func (r *RecordInput) Tag() Field {
	return r.tag
}

func (r *RecordInput) Origin() Origin {
	return r.origin
}

func (r *RecordInput) String() string {
	return stringify.Struct("RecordInput",
		stringify.NewStructField("SerialNumber", r.serialNumber),
		stringify.NewStructField("Tag", r.tag),
		stringify.NewStructField("Origin", r.origin),
	)
}

// ExternalRecordInput is a record consumed from an external program. Only its
// identifier is tracked; this is not the record commitment.
type ExternalRecordInput struct {
	id Field
}

func NewExternalRecordInput(id Field) *ExternalRecordInput {
	return &ExternalRecordInput{id: id}
}

func (e *ExternalRecordInput) Type() InputType {
	return InputExternalRecord
}

func (e *ExternalRecordInput) ID() Field {
	return e.id
}

func (e *ExternalRecordInput) String() string {
	return stringify.Struct("ExternalRecordInput",
		stringify.NewStructField("ID", e.id),
	)
}

// code guards.
var (
	_ Input = &ConstantInput{}
	_ Input = &PublicInput{}
	_ Input = &PrivateInput{}
	_ Input = &RecordInput{}
	_ Input = &ExternalRecordInput{}
)
