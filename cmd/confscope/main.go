// Command confscope is the operator tool for scoped configuration stores:
// it resolves, edits and lists configuration bundles in a sqlite or YAML
// backed store.
package main

func main() {
	Execute()
}
