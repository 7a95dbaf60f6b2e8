// Provides host-side and image-internal paths for the tool.
//
// Host paths follow XDG conventions via the adrg/xdg package, with the
// working directory taking precedence for the manifest. Image-internal
// paths are fixed constants shared by the recipe renderer and the
// container engine so the bind mount and the baked-in fallback config
// always agree on the same location.
package paths
