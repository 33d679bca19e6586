package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/access"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
	"launchthat.app/portal/internal/store"
)

var _ = Describe("ContentAccessService", func() {
	var (
		ctx    context.Context
		stores *mockStoreProvider
		svc    service.ContentAccessService
		rules  map[string]*model.ContentAccessRule
		logs   []*model.AccessLog
		userID int64
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStores()
		svc = service.NewContentAccessService(stores)
		rules = map[string]*model.ContentAccessRule{}
		logs = nil
		userID = 9

		stores.rules.getFn = func(_ context.Context, _ int64, ct model.ContentType, id string) (*model.ContentAccessRule, error) {
			if r, ok := rules[string(ct)+"/"+id]; ok {
				return r, nil
			}
			return nil, store.ErrNotFound
		}
		stores.accessLogs.createFn = func(_ context.Context, entry *model.AccessLog) error {
			logs = append(logs, entry)
			return nil
		}
		stores.users.getByIDFn = func(_ context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id}, nil
		}
		stores.memberships.getFn = func(context.Context, int64, int64) (*model.Membership, error) {
			return &model.Membership{Role: model.RoleViewer, IsActive: true}, nil
		}
	})

	Describe("Check", func() {
		It("grants content without a rule and logs the decision", func() {
			d, err := svc.Check(ctx, service.CheckInput{OrgID: orgID, ContentType: model.ContentTypeCourse, ContentID: "c1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(access.Decision{Granted: true, Reason: access.ReasonNoRule}))
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].Reason).To(Equal("no_rule"))
			Expect(logs[0].UserID).To(BeNil())
		})

		It("asks anonymous callers to log in for private content", func() {
			rules["course/c1"] = &model.ContentAccessRule{IsActive: true}
			d, err := svc.Check(ctx, service.CheckInput{OrgID: orgID, ContentType: model.ContentTypeCourse, ContentID: "c1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Reason).To(Equal(access.ReasonLoginRequired))
		})

		It("evaluates held tags", func() {
			rules["course/c1"] = &model.ContentAccessRule{
				IsActive:     true,
				RequiredTags: model.TagMatch{Mode: model.TagModeAll, TagIDs: []int64{1, 2}},
			}
			stores.tags.listActiveIDsForUserFn = func(context.Context, int64, int64) ([]int64, error) {
				return []int64{1}, nil
			}

			d, err := svc.Check(ctx, service.CheckInput{OrgID: orgID, UserID: &userID, ContentType: model.ContentTypeCourse, ContentID: "c1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(access.Decision{Granted: false, Reason: access.ReasonMissingTag}))

			stores.tags.listActiveIDsForUserFn = func(context.Context, int64, int64) ([]int64, error) {
				return []int64{1, 2}, nil
			}
			d, err = svc.Check(ctx, service.CheckInput{OrgID: orgID, UserID: &userID, ContentType: model.ContentTypeCourse, ContentID: "c1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Granted).To(BeTrue())
			Expect(*logs[1].UserID).To(Equal(userID))
		})

		It("reports a grant from the parent course as inherited", func() {
			rules["course/c1"] = &model.ContentAccessRule{IsActive: true, RequiredRoles: []model.Role{model.RoleViewer}}
			parent := "c1"
			d, err := svc.Check(ctx, service.CheckInput{
				OrgID: orgID, UserID: &userID,
				ContentType: model.ContentTypeLesson, ContentID: "l1", ParentID: &parent,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(access.Decision{Granted: true, Reason: access.ReasonInherited}))
		})

		It("passes parent denials through unchanged", func() {
			rules["course/c1"] = &model.ContentAccessRule{IsActive: true, RequiredRoles: []model.Role{model.RoleAdmin}}
			parent := "c1"
			d, err := svc.Check(ctx, service.CheckInput{
				OrgID: orgID, UserID: &userID,
				ContentType: model.ContentTypeLesson, ContentID: "l1", ParentID: &parent,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Reason).To(Equal(access.ReasonMissingRole))
		})

		It("still answers when the access log cannot be written", func() {
			stores.accessLogs.createFn = func(context.Context, *model.AccessLog) error { return errors.New("down") }
			d, err := svc.Check(ctx, service.CheckInput{OrgID: orgID, ContentType: model.ContentTypePage, ContentID: "p"})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Granted).To(BeTrue())
		})

		It("rejects unknown content types", func() {
			_, err := svc.Check(ctx, service.CheckInput{OrgID: orgID, ContentType: "video", ContentID: "v"})
			Expect(err).To(MatchError(service.ErrInvalidContentType))
		})
	})

	Describe("SaveRules", func() {
		It("clears requirements on public rules", func() {
			var saved *model.ContentAccessRule
			stores.rules.upsertFn = func(_ context.Context, r *model.ContentAccessRule) error {
				saved = r
				return nil
			}
			_, err := svc.SaveRules(ctx, orgID, actorWithRole(model.RoleAdmin), service.AccessRuleInput{
				ContentType:   model.ContentTypeCourse,
				ContentID:     "c1",
				IsPublic:      true,
				RequiredRoles: []model.Role{model.RoleEditor},
				RequiredTags:  model.TagMatch{Mode: model.TagModeAll, TagIDs: []int64{1}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.IsPublic).To(BeTrue())
			Expect(saved.RequiredRoles).To(BeEmpty())
			Expect(saved.RequiredTags.TagIDs).To(BeEmpty())
			Expect(saved.IsActive).To(BeTrue())
		})

		It("requires content.manage_rules", func() {
			_, err := svc.SaveRules(ctx, orgID, actorWithRole(model.RoleEditor), service.AccessRuleInput{
				ContentType: model.ContentTypeCourse, ContentID: "c1",
			})
			Expect(err).To(MatchError(service.ErrPermissionDenied))
		})
	})

	Describe("GetRules", func() {
		It("returns nil when no rule is stored", func() {
			rule, err := svc.GetRules(ctx, orgID, actorWithRole(model.RoleEditor), model.ContentTypeCourse, "none")
			Expect(err).NotTo(HaveOccurred())
			Expect(rule).To(BeNil())
		})
	})
})
