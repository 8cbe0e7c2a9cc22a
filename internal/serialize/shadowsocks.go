package serialize

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/arktoria/acolors/internal/repository"
	"github.com/arktoria/acolors/internal/v2ray"
)

// SIP002: ss://<base64(method:password)>@hostname:port/?plugin#tag
var sip002Re = regexp.MustCompile(`(\w+)://([^/@:]*)@([^@]*):([^:/]*)((/\?)*[^#]*)#([^#]*)`)

func shadowsocksNodeFromURL(urlStr string) (*repository.NodeData, error) {
	caps := sip002Re.FindStringSubmatch(urlStr)
	if caps == nil {
		return nil, parseErrorf("failed to parse sip002 url %q", urlStr)
	}

	userInfo, err := decodeBase64(caps[2])
	if err != nil {
		return nil, parseErrorf("sip002 user info: %v", err)
	}
	if len(userInfo) == 0 {
		return nil, parseErrorf("empty sip002 user info")
	}

	method, password, found := strings.Cut(string(userInfo), ":")
	if !found {
		return nil, parseErrorf("sip002 user info lacks password")
	}

	port, err := strconv.ParseUint(caps[4], 10, 16)
	if err != nil {
		return nil, parseErrorf("sip002 port: %v", err)
	}

	name, err := url.QueryUnescape(caps[7])
	if err != nil {
		return nil, parseErrorf("sip002 tag: %v", err)
	}

	outbound := &v2ray.OutboundObject{
		Protocol:    "shadowsocks",
		SendThrough: "0.0.0.0",
		Settings: &v2ray.OutboundSettings{
			Shadowsocks: &v2ray.ShadowsocksOutboundSettings{
				Servers: []v2ray.ShadowsocksServerObject{{
					Address:  caps[3],
					Port:     uint32(port),
					Method:   method,
					Password: password,
				}},
			},
		},
	}

	raw, err := prettyOutbound(outbound)
	if err != nil {
		return nil, parseErrorf("shadowsocks outbound: %v", err)
	}

	return &repository.NodeData{
		Name:     name,
		Protocol: "shadowsocks",
		Address:  caps[3],
		Port:     int32(port),
		Password: password,
		Raw:      raw,
		URL:      urlStr,
	}, nil
}
