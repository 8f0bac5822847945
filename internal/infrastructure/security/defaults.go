package security

import "github.com/doeshing/nlsh/internal/domain"

// DefaultRules is the built-in rule list used when no rules file exists.
// Order is priority: first match per sub-command wins.
func DefaultRules() []domain.SafetyRule {
	return []domain.SafetyRule{
		// Pipeline-level dangers: the combination is the problem, so these
		// match the raw line before any splitting.
		{Pattern: `(curl|wget)\b.*\|\s*(sudo\s+)?(ba|z|fi|da)?sh\b`, Verdict: domain.VerdictBlock, Scope: domain.ScopePipeline, Description: "remote content piped into a shell"},
		{Pattern: `(curl|wget)\b.*\|\s*(python3?|perl|ruby|node)\b`, Verdict: domain.VerdictBlock, Scope: domain.ScopePipeline, Description: "remote content piped into an interpreter"},
		{Pattern: `>\s*/dev/(sd[a-z]|nvme)`, Verdict: domain.VerdictBlock, Scope: domain.ScopePipeline, Description: "writing to a block device"},

		// Destructive or system-altering commands.
		{Pattern: `^rm\s+-[rf]{2}\s+(/|\*|~|\$HOME)\s*$`, Verdict: domain.VerdictBlock, Description: "recursive delete of root or home"},
		{Pattern: `^rm(\s|$)`, Verdict: domain.VerdictConfirm, Description: "file deletion"},
		{Pattern: `^sudo(\s|$)`, Verdict: domain.VerdictConfirm, Description: "elevated privileges"},
		{Pattern: `^(chmod|chown)(\s|$)`, Verdict: domain.VerdictConfirm, Description: "permission or ownership change"},
		{Pattern: `^(mv|cp)(\s|$)`, Verdict: domain.VerdictConfirm, Description: "file move or copy"},
		{Pattern: `^dd(\s|$)`, Verdict: domain.VerdictBlock, Description: "raw disk access"},
		{Pattern: `^(mkfs|fdisk)(\.|(\s|$))`, Verdict: domain.VerdictBlock, Description: "disk partitioning or formatting"},
		{Pattern: `^(mount|umount)(\s|$)`, Verdict: domain.VerdictConfirm, Description: "filesystem mounting"},
		{Pattern: `^kill\s+-9(\s|$)`, Verdict: domain.VerdictConfirm, Description: "force kill"},
		{Pattern: `^killall(\s|$)`, Verdict: domain.VerdictConfirm, Description: "mass process termination"},
		{Pattern: `^(shutdown|reboot|poweroff|halt)(\s|$)`, Verdict: domain.VerdictBlock, Description: "system power control"},
		{Pattern: `:\(\)\{ :\|:& \};:`, Verdict: domain.VerdictBlock, Description: "fork bomb"},

		// Read-only diagnostics: safe to run unattended.
		{Pattern: `^cd(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "directory change"},
		{Pattern: `^ls(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "file listing"},
		{Pattern: `^pwd$`, Verdict: domain.VerdictAutoApprove, Description: "current directory"},
		{Pattern: `^whoami$`, Verdict: domain.VerdictAutoApprove, Description: "user identity"},
		{Pattern: `^uname(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "system information"},
		{Pattern: `^uptime$`, Verdict: domain.VerdictAutoApprove, Description: "uptime"},
		{Pattern: `^date$`, Verdict: domain.VerdictAutoApprove, Description: "date"},
		{Pattern: `^df(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "disk space"},
		{Pattern: `^du(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "disk usage"},
		{Pattern: `^free(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "memory usage"},
		{Pattern: `^ps(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "process listing"},
		{Pattern: `^top\s+-b\s+-n\s*1(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "system snapshot"},
		{Pattern: `^stat(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "file statistics"},
		{Pattern: `^file(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "file type detection"},
		{Pattern: `^wc(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "line count"},
		{Pattern: `^(head|tail)(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "file preview"},
		{Pattern: `^cat\s+\S+\.(txt|log|conf|json|xml|csv|md|ya?ml)$`, Verdict: domain.VerdictAutoApprove, Description: "text file reading"},
		{Pattern: `^grep(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "text search"},
		{Pattern: `^find\s.*-(exec|delete)`, Verdict: domain.VerdictConfirm, Description: "file search with side effects"},
		{Pattern: `^find\s`, Verdict: domain.VerdictAutoApprove, Description: "file search"},
		{Pattern: `^which(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "binary lookup"},
		{Pattern: `^echo(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "echo"},
		{Pattern: `^(curl|wget)(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "network fetch"},
		{Pattern: `^git\s+(status|log|diff|branch|show)(\s|$)`, Verdict: domain.VerdictAutoApprove, Description: "read-only git"},

		// Known interactive programs: allowed, but the runner gives them a
		// terminal instead of captured pipes.
		{Pattern: `^(python3?|node|irb|ghci)\s*(-i)?$`, Verdict: domain.VerdictConfirm, Interactive: true, Description: "interpreter REPL"},
		{Pattern: `^(vim?|nano|less|top|htop)(\s|$)`, Verdict: domain.VerdictConfirm, Interactive: true, Description: "full-screen terminal program"},
	}
}
