//go:build !darwin

package platform

// IsAppActive always reports true on platforms without a native focus
// query; the overlay relies on the window manager honoring Show.
func IsAppActive() bool {
	return true
}

// ActivateApp is a no-op on non-macOS platforms.
func ActivateApp() {
}
