// Package sitterdiff computes concise edit scripts between two versions of
// a source file, working on tree-sitter syntax trees.
//
// A Differ parses both versions, hashes every subtree, reuses old
// subtrees wherever the new tree contains an equal one and reports the
// remaining changes as Detach, Unload, Load, Attach and Update edits:
//
//	d, err := sitterdiff.New("json", nil)
//	if err != nil {
//		return err
//	}
//	defer d.Close()
//	res, err := d.DiffFiles(ctx, "old.json", "new.json")
//	if err != nil {
//		return err
//	}
//	fmt.Print(res.Script)
//
// Every failure is an *Error whose Kind tells where it came from.
package sitterdiff
