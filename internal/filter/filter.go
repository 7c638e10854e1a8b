package filter

import "strings"

// PseudoFilesystems lists kernel-backed filesystem types that never belong
// in a persisted fstab.
var PseudoFilesystems = []string{
	"autofs",
	"binder",
	"binfmt_misc",
	"bpf",
	"cgroup",
	"cgroup2",
	"configfs",
	"debugfs",
	"devpts",
	"devtmpfs",
	"efivarfs",
	"fuse.gvfsd-fuse",
	"fuse.portal",
	"fusectl",
	"hugetlbfs",
	"mqueue",
	"nsfs",
	"overlay",
	"proc",
	"pstore",
	"ramfs",
	"rpc_pipefs",
	"securityfs",
	"selinuxfs",
	"sysfs",
	"tmpfs",
	"tracefs",
}

// RuntimeOptions lists mount options the kernel reports for a live mount
// that carry no meaning in a persisted fstab.
var RuntimeOptions = []string{"lazytime", "noatime", "relatime", "ro", "rw", "seclabel"}

// IsPseudo reports whether fstype is a pseudo-filesystem. extra holds
// additional types from the config file.
func IsPseudo(fstype string, extra []string) bool {
	for _, fs := range PseudoFilesystems {
		if fstype == fs {
			return true
		}
	}
	for _, fs := range extra {
		if fstype == fs {
			return true
		}
	}
	return false
}

// UnderRoot reports whether target lies within (or equals) root. root must
// already be canonicalized with no trailing slash (except "/").
func UnderRoot(target, root string) bool {
	if root == "/" {
		return true
	}
	return target == root || strings.HasPrefix(target, root+"/")
}

// Options strips runtime-only mount options, returning "defaults" when
// nothing persistable remains. subvolid= is dropped (the kernel reassigns
// it) while subvol= is kept.
func Options(options string, extra []string) string {
	var kept []string
	for _, opt := range strings.Split(options, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" || isRuntime(opt, extra) || strings.HasPrefix(opt, "subvolid=") {
			continue
		}
		kept = append(kept, opt)
	}
	if len(kept) == 0 {
		return "defaults"
	}
	return strings.Join(kept, ",")
}

func isRuntime(opt string, extra []string) bool {
	for _, r := range RuntimeOptions {
		if opt == r {
			return true
		}
	}
	for _, r := range extra {
		if opt == r {
			return true
		}
	}
	return false
}
