package catalog

import "net/url"

// RewriteHost replaces the host segment of downloadURL with inthubHost,
// implementing §4.3 step 4: when use_inthub2 is enabled, the download
// moves to the IntHub2 mirror and must use IntHub2 credentials instead of
// the default SciHub ones.
func RewriteHost(downloadURL, inthubHost string) (string, error) {
	u, err := url.Parse(downloadURL)
	if err != nil {
		return "", err
	}
	u.Host = inthubHost
	return u.String(), nil
}
