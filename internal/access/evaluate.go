package access

import (
	"slices"

	"launchthat.app/portal/internal/model"
)

type Reason string

const (
	ReasonPublic            Reason = "public"
	ReasonNoRule            Reason = "no_rule"
	ReasonInherited         Reason = "inherited"
	ReasonPlatformAdmin     Reason = "platform_admin"
	ReasonLoginRequired     Reason = "login_required"
	ReasonNotMember         Reason = "not_member"
	ReasonMissingRole       Reason = "missing_role"
	ReasonMissingPermission Reason = "missing_permission"
	ReasonExcludedTag       Reason = "excluded_tag"
	ReasonMissingTag        Reason = "missing_tag"
	ReasonGranted           Reason = "granted"
)

type Decision struct {
	Granted bool   `json:"granted"`
	Reason  Reason `json:"reason"`
}

func grant(r Reason) Decision { return Decision{Granted: true, Reason: r} }
func deny(r Reason) Decision { return Decision{Granted: false, Reason: r} }

// Subject is the caller being evaluated. A nil *Subject is anonymous.
type Subject struct {
	UserID          int64
	IsPlatformAdmin bool
	Role            model.Role
	Active          bool
	TagIDs          map[int64]bool
}

func NewTagSet(ids []int64) map[int64]bool {
	s := make(map[int64]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Matches reports whether held satisfies m. Unknown modes behave as "some".
// An empty tag list matches nothing in "some" mode and everything in "all" mode;
// Evaluate guards both cases before calling.
func Matches(m model.TagMatch, held map[int64]bool) bool {
	if m.Mode == model.TagModeAll {
		for _, id := range m.TagIDs {
			if !held[id] {
				return false
			}
		}
		return true
	}
	for _, id := range m.TagIDs {
		if held[id] {
			return true
		}
	}
	return false
}

// Evaluate applies rule to subject. The first check that decides wins.
func Evaluate(rule *model.ContentAccessRule, subject *Subject) Decision {
	if rule == nil || !rule.IsActive {
		return grant(ReasonNoRule)
	}
	if rule.IsPublic {
		return grant(ReasonPublic)
	}
	if subject == nil {
		return deny(ReasonLoginRequired)
	}
	if subject.IsPlatformAdmin {
		return grant(ReasonPlatformAdmin)
	}
	if !subject.Active || subject.Role == "" {
		return deny(ReasonNotMember)
	}
	if len(rule.RequiredRoles) > 0 && !slices.Contains(rule.RequiredRoles, subject.Role) {
		return deny(ReasonMissingRole)
	}
	for _, perm := range rule.RequiredPermissions {
		if !HasPermission(subject.Role, perm) {
			return deny(ReasonMissingPermission)
		}
	}
	if len(rule.ExcludedTags.TagIDs) > 0 && Matches(rule.ExcludedTags, subject.TagIDs) {
		return deny(ReasonExcludedTag)
	}
	if len(rule.RequiredTags.TagIDs) > 0 && !Matches(rule.RequiredTags, subject.TagIDs) {
		return deny(ReasonMissingTag)
	}
	return grant(ReasonGranted)
}

// Inherited rewrites a grant obtained from a parent rule.
func Inherited(d Decision) Decision {
	if d.Granted {
		return grant(ReasonInherited)
	}
	return d
}

// ParentType returns the content type whose rule is consulted when a child has none.
func ParentType(ct model.ContentType) (model.ContentType, bool) {
	switch ct {
	case model.ContentTypeLesson:
		return model.ContentTypeCourse, true
	case model.ContentTypeTopic:
		return model.ContentTypeLesson, true
	}
	return "", false
}
