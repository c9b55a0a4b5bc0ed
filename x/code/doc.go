/*
Package code keeps the registry of deployed contract code.

Every address that has code stored is a contract. Contracts are implemented
natively: the stored code names the implementation registered with the
Invoker. Replacing the code of an address switches its implementation.
*/
package code
