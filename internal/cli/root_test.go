package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/cli"
	"launchthat.app/portal/internal/webhook"
)

var _ = Describe("portalctl", func() {
	run := func(args ...string) (string, error) {
		cmd := cli.NewRootCommand()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	It("registers the operator subcommands", func() {
		root := cli.NewRootCommand()
		names := []string{}
		for _, c := range root.Commands() {
			names = append(names, c.Name())
		}
		Expect(names).To(ContainElements("migrate", "seed", "sign"))
		Expect(root.PersistentFlags().Lookup("verbose")).NotTo(BeNil())
	})

	It("exposes up, down and status under migrate", func() {
		root := cli.NewRootCommand()
		migrate, _, err := root.Find([]string{"migrate"})
		Expect(err).NotTo(HaveOccurred())

		names := []string{}
		for _, c := range migrate.Commands() {
			names = append(names, c.Name())
		}
		Expect(names).To(ConsistOf("up", "down", "status"))
	})

	Describe("sign", func() {
		var payloadPath string
		payload := []byte(`{"event":"order.paid"}`)

		BeforeEach(func() {
			payloadPath = filepath.Join(GinkgoT().TempDir(), "payload.json")
			Expect(os.WriteFile(payloadPath, payload, 0o600)).To(Succeed())
		})

		It("prints the inbound signature without a timestamp", func() {
			out, err := run("sign", payloadPath, "--secret", "s3cret")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("X-Signature: " + webhook.SignInbound("s3cret", payload, "") + "\n"))
		})

		It("prints the timestamp header with the signature", func() {
			out, err := run("sign", payloadPath, "--secret", "s3cret", "--timestamp", "1700000000000")
			Expect(err).NotTo(HaveOccurred())

			lines := strings.Split(strings.TrimSpace(out), "\n")
			Expect(lines).To(Equal([]string{
				"X-Timestamp: 1700000000000",
				"X-Signature: " + webhook.SignInbound("s3cret", payload, "1700000000000"),
			}))
		})

		It("signs outbound deliveries", func() {
			out, err := run("sign", payloadPath, "--secret", "s3cret", "--outbound")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("X-Portal-Signature: " + webhook.Sign("s3cret", payload) + "\n"))
		})

		It("reads the payload from stdin", func() {
			cmd := cli.NewRootCommand()
			out := &bytes.Buffer{}
			cmd.SetOut(out)
			cmd.SetIn(bytes.NewReader(payload))
			cmd.SetArgs([]string{"sign", "-", "--secret", "s3cret"})

			Expect(cmd.Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring(webhook.SignInbound("s3cret", payload, "")))
		})

		It("rejects a non numeric timestamp", func() {
			_, err := run("sign", payloadPath, "--secret", "s3cret", "--timestamp", "yesterday")
			Expect(err).To(MatchError(ContainSubstring("unix milliseconds")))
		})

		It("requires a secret", func() {
			_, err := run("sign", payloadPath)
			Expect(err).To(HaveOccurred())
		})

		It("rejects --now together with --timestamp", func() {
			_, err := run("sign", payloadPath, "--secret", "s", "--now", "--timestamp", "1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("seed --dry-run", func() {
		It("validates the file without a database", func() {
			out, err := run("seed", "../seed/testdata/demo.yaml", "--dry-run")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("is valid: 1 organization(s)"))
		})

		It("reports an invalid file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "bad.yaml")
			Expect(os.WriteFile(path, []byte("owner:\n  name: x\n"), 0o600)).To(Succeed())

			_, err := run("seed", path, "--dry-run")
			Expect(err).To(HaveOccurred())
		})
	})
})
