package example

type Role string

const (
	RoleOwner  Role = "owner"
	RoleViewer Role = "viewer"
)

type RunStatus string

const (
	RunStatusPending RunStatus = "pending"
)

type NodeType string

const (
	NodeTypeLogger NodeType = "logger"
)

type Membership struct {
	Role Role
}

type ScenarioRun struct {
	Status RunStatus
}

type Node struct {
	Type  NodeType
	Label string
}

func bad() {
	m := &Membership{}
	m.Role = "superuser" // want "enum field Role assigned string literal"

	r := &ScenarioRun{}
	r.Status = "queued" // want "enum field Status assigned string literal"

	_ = Node{Type: "teleport"} // want "enum field Type assigned string literal"
}

func good() {
	m := &Membership{}
	m.Role = RoleOwner // OK: using constant

	r := &ScenarioRun{}
	r.Status = RunStatusPending // OK: using constant

	_ = Node{Type: NodeTypeLogger, Label: "plain string field"}
}

func alsoGood() {
	// OK: Variable, not literal
	role := RoleViewer
	m := &Membership{Role: role}
	_ = m
}
