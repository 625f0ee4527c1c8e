package dpkg

import (
	"bufio"
	"os"
	"runtime"
	"strings"
)

// goArchToDpkg maps GOARCH values to dpkg architecture names.
var goArchToDpkg = map[string]string{
	"amd64":    "amd64",
	"386":      "i386",
	"arm64":    "arm64",
	"arm":      "armhf",
	"ppc64le":  "ppc64el",
	"s390x":    "s390x",
	"riscv64":  "riscv64",
	"mips64le": "mips64el",
	"mipsle":   "mipsel",
	"loong64":  "loong64",
}

// HostArch returns the dpkg name of the running architecture.
func HostArch() string {
	if arch, ok := goArchToDpkg[runtime.GOARCH]; ok {
		return arch
	}
	return runtime.GOARCH
}

// architectures returns the native architecture and every configured
// one, native first. A missing arch file means a single-arch system.
func (b *Backend) architectures() (string, []string) {
	native := b.paths.NativeArch
	if native == "" {
		native = HostArch()
	}
	archs := []string{native}

	f, err := os.Open(b.paths.ArchFile)
	if err != nil {
		if !os.IsNotExist(err) {
			b.logger.Printf("dpkg: reading arch file: %v", err)
		}
		return native, archs
	}
	defer f.Close()

	seen := map[string]bool{native: true}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		arch := strings.TrimSpace(scanner.Text())
		if arch == "" || seen[arch] {
			continue
		}
		seen[arch] = true
		archs = append(archs, arch)
	}
	if err := scanner.Err(); err != nil {
		b.logger.Printf("dpkg: reading arch file: %v", err)
	}
	return native, archs
}
