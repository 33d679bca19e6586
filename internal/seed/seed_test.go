package seed_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/seed"
)

var _ = Describe("Seeder", func() {
	var (
		log  *seedLog
		file *seed.File
	)

	BeforeEach(func() {
		log = &seedLog{}
		var err error
		file, err = seed.LoadFile("testdata/demo.yaml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates the fixture through the services", func() {
		sum, err := seed.NewSeeder(log.services()).Apply(context.Background(), file)
		Expect(err).NotTo(HaveOccurred())

		Expect(sum).To(Equal(seed.Summary{Organizations: 1, Tags: 2, Scenarios: 3, Nodes: 3, Edges: 1}))
		Expect(log.orgs).To(Equal([]string{"Acme Academy"}))
		Expect(*log.slugs[0]).To(Equal("acme"))
		Expect(log.tags).To(Equal([]string{"Premium", "Beta"}))
	})

	It("maps scenario fields and encodes node config as JSON", func() {
		_, err := seed.NewSeeder(log.services()).Apply(context.Background(), file)
		Expect(err).NotTo(HaveOccurred())

		Expect(log.scenarios[0].TriggerKey).To(Equal("order-paid"))
		Expect(log.scenarios[0].Schedule).To(BeNil())
		Expect(*log.scenarios[1].Schedule).To(Equal("0 3 * * *"))
		Expect(log.scenarios[2].ScenarioType).To(Equal(model.ScenarioTypeCheckout))
		Expect(*log.scenarios[2].Slug).To(Equal("buy-course"))

		Expect(log.nodes[0].Type).To(Equal(model.NodeTypeLogger))
		Expect(log.nodes[0].Config).To(MatchJSON(`{"message":"order paid","level":"info"}`))
		Expect(log.nodes[1].Position.X).To(Equal(300.0))
	})

	It("wires edges by node key", func() {
		_, err := seed.NewSeeder(log.services()).Apply(context.Background(), file)
		Expect(err).NotTo(HaveOccurred())

		// ids are handed out in call order: org 101, tags 2-3, scenario 4, nodes 5-6.
		Expect(log.edges).To(HaveLen(1))
		Expect(log.edges[0].SourceNodeID).To(Equal(int64(5)))
		Expect(log.edges[0].TargetNodeID).To(Equal(int64(6)))
	})

	It("publishes and enables only when asked", func() {
		_, err := seed.NewSeeder(log.services()).Apply(context.Background(), file)
		Expect(err).NotTo(HaveOccurred())

		Expect(log.published).To(Equal([]int64{4}))
		Expect(log.enabled).To(Equal([]int64{4}))
	})

	It("stops at the first failing node", func() {
		log.addNodeErr = fmt.Errorf("%w: teleport", scenario.ErrUnknownNodeType)

		sum, err := seed.NewSeeder(log.services()).Apply(context.Background(), file)
		Expect(err).To(MatchError(scenario.ErrUnknownNodeType))
		Expect(err.Error()).To(ContainSubstring(`scenario "Order paid notification": node "log"`))
		Expect(sum.Scenarios).To(Equal(1))
		Expect(log.edges).To(BeEmpty())
	})
})
