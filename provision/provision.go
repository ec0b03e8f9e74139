// Package provision models the account provisioning steps used to exercise the
// graph engine: a syslog account collecting CloudTrail output of PDU accounts.
package provision

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/depflow/types"
)

const (
	CreateAccount      types.NodeKind = "CreateAccount"
	AdminAccess        types.NodeKind = "AdminAccess"
	CloudTrailSNSTopic types.NodeKind = "CloudTrailSNSTopic"
	CloudTrailTrail    types.NodeKind = "CloudTrailTrail"
	S3Bucket           types.NodeKind = "S3Bucket"
	SQSQueue           types.NodeKind = "SQSQueue"
)

const SyslogAccount = "syslog"

// requirement matches nodes of kind whose target satisfies match.
type requirement struct {
	kind  types.NodeKind
	match func(self, other string) bool
}

func sameAccount(self, other string) bool  { return self == other }
func otherAccount(self, other string) bool { return self != other }
func syslog(self, other string) bool       { return other == SyslogAccount }

func dependsOn(reqs ...requirement) types.DependencyFunc {
	return func(n *types.Node, all []*types.Node) []*types.Node {
		deps := make([]*types.Node, 0)
		for _, other := range all {
			for _, req := range reqs {
				if other.Kind == req.kind && req.match(n.Target, other.Target) {
					deps = append(deps, other)
					break
				}
			}
		}
		return deps
	}
}

// Dependencies is the dependency table of every provisioning kind.
func Dependencies() types.DependencyTable {
	return types.DependencyTable{
		CreateAccount: dependsOn(),
		AdminAccess: dependsOn(
			requirement{CreateAccount, sameAccount},
		),
		CloudTrailSNSTopic: dependsOn(
			requirement{CreateAccount, syslog},
			requirement{AdminAccess, sameAccount},
		),
		CloudTrailTrail: dependsOn(
			requirement{S3Bucket, syslog},
			requirement{CloudTrailSNSTopic, sameAccount},
		),
		S3Bucket: dependsOn(
			requirement{CreateAccount, otherAccount},
			requirement{AdminAccess, sameAccount},
		),
		SQSQueue: dependsOn(
			requirement{CloudTrailSNSTopic, otherAccount},
			requirement{AdminAccess, sameAccount},
		),
	}
}

func PDUAccount(n int) string {
	return fmt.Sprintf("PDU%d", n)
}

// Instructions lists the syslog account steps followed by the steps of each PDU account.
func Instructions(accounts int) []types.Instruction {
	ins := []types.Instruction{
		{Label: "Create [Syslog]", Target: SyslogAccount, Kind: CreateAccount},
		{Label: "Admin Access [Syslog]", Target: SyslogAccount, Kind: AdminAccess},
		{Label: "S3 Bucket [Syslog]", Target: SyslogAccount, Kind: S3Bucket},
		{Label: "SQS Queue [Syslog]", Target: SyslogAccount, Kind: SQSQueue},
	}

	for i := 1; i <= accounts; i++ {
		account := PDUAccount(i)
		ins = append(ins,
			types.Instruction{Label: fmt.Sprintf("Create [%s]", account), Target: account, Kind: CreateAccount},
			types.Instruction{Label: fmt.Sprintf("Admin Access [%s]", account), Target: account, Kind: AdminAccess},
			types.Instruction{Label: fmt.Sprintf("CloudTrail SNS [%s]", account), Target: account, Kind: CloudTrailSNSTopic},
			types.Instruction{Label: fmt.Sprintf("CloudTrail Trail [%s]", account), Target: account, Kind: CloudTrailTrail},
		)
	}
	return ins
}

// Sync returns a work function that pretends to apply a step by sleeping for delay.
func Sync(delay time.Duration) types.WorkFunc {
	return func(ctx context.Context, n *types.Node) (any, error) {
		log.Debugf("syncing %s", n)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return fmt.Sprintf("Result of %s", n), nil
	}
}
