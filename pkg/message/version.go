package message

import (
	"fmt"
	"strconv"
	"strings"
)

// Version 游戏协议版本，形如 1.16
type Version struct {
	Major int
	Minor int
}

// ParseVersion 解析 "1.16" 形式的版本号，容忍补丁段
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	return Version{Major: major, Minor: minor}, nil
}

// AtLeast 判断版本不低于 other
func (v Version) AtLeast(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
