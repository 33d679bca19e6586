package seed_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/seed"
)

var _ = Describe("LoadFile", func() {
	It("loads the demo fixture", func() {
		f, err := seed.LoadFile("testdata/demo.yaml")
		Expect(err).NotTo(HaveOccurred())

		Expect(f.Owner.Email).To(Equal("owner@example.com"))
		Expect(f.Organizations).To(HaveLen(1))

		org := f.Organizations[0]
		Expect(org.Tags).To(HaveLen(2))
		Expect(org.Scenarios).To(HaveLen(3))
		Expect(org.Scenarios[0].Nodes[0].Type).To(Equal(model.NodeTypeLogger))
		Expect(org.Scenarios[0].Nodes[0].Config).To(HaveKeyWithValue("message", "order paid"))
		Expect(org.Scenarios[2].Type).To(Equal(model.ScenarioTypeCheckout))
	})

	It("fails for a missing file", func() {
		_, err := seed.LoadFile("testdata/missing.yaml")
		Expect(err).To(MatchError(ContainSubstring("reading seed file")))
	})
})

var _ = Describe("Parse", func() {
	It("rejects unknown keys", func() {
		_, err := seed.Parse([]byte("owner:\n  email: a@example.com\norganisations: []\n"))
		Expect(err).To(MatchError(ContainSubstring("parsing seed yaml")))
	})

	It("requires an owner email", func() {
		_, err := seed.Parse([]byte("organizations: []\n"))
		Expect(err).To(MatchError(ContainSubstring("owner.email is required")))
	})

	It("rejects edges to unknown nodes", func() {
		_, err := seed.Parse([]byte(`
owner: {email: a@example.com}
organizations:
  - name: Acme
    scenarios:
      - name: Flow
        nodes:
          - {key: a, type: logger}
        edges:
          - {from: a, to: b}
`))
		Expect(err).To(MatchError(ContainSubstring("references an unknown node")))
	})

	It("rejects duplicate node keys", func() {
		_, err := seed.Parse([]byte(`
owner: {email: a@example.com}
organizations:
  - name: Acme
    scenarios:
      - name: Flow
        nodes:
          - {key: a, type: logger}
          - {key: a, type: logger}
`))
		Expect(err).To(MatchError(ContainSubstring(`duplicate node key "a"`)))
	})

	It("reports every invalid organization", func() {
		_, err := seed.Parse([]byte(`
owner: {email: a@example.com}
organizations:
  - name: ""
  - name: Beta
    scenarios:
      - name: ""
`))
		Expect(err).To(MatchError(ContainSubstring("organizations[0]: name is required")))
		Expect(err).To(MatchError(ContainSubstring("organizations[1].scenarios[0]: name is required")))
	})
})
