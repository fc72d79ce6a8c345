// Package contact defines the contacts produced by constraint generators and
// the iterative resolver that turns them back into a valid state.
//
// A [Contact] involves one particle, or two. Its normal points the way the
// first particle must move to undo the violation; the second particle, when
// present, moves the opposite way. Impulses and position corrections are
// split by inverse mass, so immovable particles (inverse mass 0) never move
// and a contact between two of them is skipped.
//
//	r, _ := contact.NewResolver(8)
//	r.ResolveContacts(contacts[:n], dt)
package contact
